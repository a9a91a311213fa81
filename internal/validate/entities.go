package validate

import (
	"github.com/vbonduro/salonbook/internal/domain"
)

var appointmentSchema = []field{
	{name: "name", kind: kindString, required: true, checks: []check{lengthBetween(2, 80)}},
	{name: "phone", kind: kindString, required: true, checks: []check{lengthBetween(6, 20)}},
	{name: "service", kind: kindString, required: true},
	{name: "date", kind: kindString, required: true, checks: []check{segments("-", 3, "YYYY-MM-DD")}},
	{name: "time", kind: kindString, required: true, checks: []check{segments(":", 2, "HH:MM")}},
	{name: "notes", kind: kindString, nullable: true, checks: []check{maxLength(500)}},
	{name: "status", kind: kindString, def: string(domain.StatusPending), checks: []check{
		oneOf(string(domain.StatusPending), string(domain.StatusConfirmed), string(domain.StatusCancelled)),
	}},
}

var reviewSchema = []field{
	{name: "name", kind: kindString, required: true},
	{name: "text", kind: kindString, required: true, checks: []check{maxLength(400)}},
	{name: "rating", kind: kindInt, def: 5, checks: []check{intBetween(1, 5)}},
	{name: "avatar_url", kind: kindString, nullable: true},
}

var galleryItemSchema = []field{
	{name: "title", kind: kindString, required: true},
	{name: "image_url", kind: kindString, required: true},
	{name: "category", kind: kindString, nullable: true},
}

func Appointment(raw map[string]any) (domain.Appointment, error) {
	vals, err := apply(appointmentSchema, raw)
	if err != nil {
		return domain.Appointment{}, err
	}
	return domain.Appointment{
		Name:    str(vals, "name"),
		Phone:   str(vals, "phone"),
		Service: str(vals, "service"),
		Date:    str(vals, "date"),
		Time:    str(vals, "time"),
		Notes:   optStr(vals, "notes"),
		Status:  domain.AppointmentStatus(str(vals, "status")),
	}, nil
}

func Review(raw map[string]any) (domain.Review, error) {
	vals, err := apply(reviewSchema, raw)
	if err != nil {
		return domain.Review{}, err
	}
	return domain.Review{
		Name:      str(vals, "name"),
		Text:      str(vals, "text"),
		Rating:    vals["rating"].(int),
		AvatarURL: optStr(vals, "avatar_url"),
	}, nil
}

func GalleryItem(raw map[string]any) (domain.GalleryItem, error) {
	vals, err := apply(galleryItemSchema, raw)
	if err != nil {
		return domain.GalleryItem{}, err
	}
	return domain.GalleryItem{
		Title:    str(vals, "title"),
		ImageURL: str(vals, "image_url"),
		Category: optStr(vals, "category"),
	}, nil
}

package domain

// Collection names in the document store.
const (
	CollectionAppointment = "appointment"
	CollectionReview      = "review"
	CollectionGalleryItem = "galleryitem"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	Name    string            `json:"name"`
	Phone   string            `json:"phone"`
	Service string            `json:"service"`
	Date    string            `json:"date"`
	Time    string            `json:"time"`
	Notes   *string           `json:"notes"`
	Status  AppointmentStatus `json:"status"`
}

type Review struct {
	Name      string  `json:"name"`
	Text      string  `json:"text"`
	Rating    int     `json:"rating"`
	AvatarURL *string `json:"avatar_url"`
}

// PublicReview is the shape served by the reviews endpoint.
type PublicReview struct {
	Name      string  `json:"name"`
	Text      string  `json:"text"`
	Rating    int     `json:"rating"`
	AvatarURL *string `json:"avatar_url"`
}

type GalleryItem struct {
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Category *string `json:"category"`
}

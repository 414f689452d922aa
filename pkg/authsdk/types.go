package authsdk

import "time"

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse is returned with 400 when input fields fail
// validation.
type ValidationErrorResponse struct {
	// Code is always "validation_error"
	Code string `json:"code"`

	Message string `json:"message"`

	// Details maps each failing field to what is wrong with it
	Details map[string]string `json:"details,omitempty"`
}

// User is the public projection of a user record. Password hashes and
// signing secrets never leave the service.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
	Role  string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login alongside the session
// cookies.
type AuthResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

type UserResponse struct {
	User User `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type RoleRequest struct {
	Role string `json:"role"`
}

type Genre struct {
	ID        string    `json:"_id"`
	Genre     string    `json:"genre"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
}

type GenreRequest struct {
	Genre string `json:"genre"`
	Icon  string `json:"icon"`
}

type AddGenreResponse struct {
	Message    string `json:"message"`
	InsertedID string `json:"insertedId"`
	Genre      Genre  `json:"genre"`
}

type GenresResponse struct {
	Genres []Genre `json:"genres"`
}

type UpdateGenreResponse struct {
	Message       string `json:"message"`
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	Genre         Genre  `json:"genre"`
}

type DeleteGenreResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

type Book struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	Genre        string    `json:"genre"`
	Description  string    `json:"description"`
	Cover        string    `json:"cover"`
	PDF          string    `json:"pdf"`
	Rating       float64   `json:"rating"`
	RatingCount  int       `json:"ratingCount"`
	ShelvedCount int       `json:"shelvedCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AddBookResponse struct {
	Message    string `json:"message"`
	InsertedID string `json:"insertedId"`
	Book       Book   `json:"book"`
}

type BooksResponse struct {
	Books []Book `json:"books"`
}

type BookResponse struct {
	Book Book `json:"book"`
}

// BootstrapRequest creates the first admin. A password is generated when
// AdminPassword is empty.
type BootstrapRequest struct {
	AdminName     string `json:"admin_name"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password,omitempty"`
}

type BootstrapResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`

	// GeneratedPassword is only set when the request carried no password.
	// It is shown once.
	GeneratedPassword string `json:"generated_password,omitempty"`
}

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of each dependency checked by /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Media    string `json:"media"`
}

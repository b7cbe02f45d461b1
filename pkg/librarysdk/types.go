package librarysdk

// ============================================================================
// Books
// ============================================================================

type Book struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Category        string `json:"category"`
	Description     string `json:"description,omitempty"`
	PublishedDate   string `json:"published_date,omitempty"`
	ISBN            string `json:"isbn"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies,omitempty"`
}

type Opinion struct {
	ID        int64  `json:"id"`
	BookTitle string `json:"book_title"`
	Rate      int    `json:"rate"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

// BookDetails is the payload of books/details/.
type BookDetails struct {
	Book                Book      `json:"book"`
	Opinions            []Opinion `json:"opinions"`
	CanAddNotifications bool      `json:"can_add_notifications"`
	AvailableCopies     int       `json:"available_copies"`
}

// BookInput is the body for books/add/ and books/edit/. ID is only set on edit.
type BookInput struct {
	ID            int64  `json:"id,omitempty"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Category      string `json:"category"`
	Description   string `json:"description,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
	ISBN          string `json:"isbn"`
	TotalCopies   int    `json:"total_copies"`
}

type BorrowRequest struct {
	BookID int64 `json:"book_id"`
}

// RentalRequest is shared by return, extend and approve-return.
type RentalRequest struct {
	RentalID int64 `json:"rental_id"`
}

type MarkAsReadRequest struct {
	NotificationID int64 `json:"notification_id"`
}

// SubscribeRequest asks to be notified when a book becomes available.
type SubscribeRequest struct {
	BookID int64 `json:"book_id"`
}

type Borrow struct {
	ID         int64  `json:"id"`
	BookTitle  string `json:"book_title"`
	Username   string `json:"username,omitempty"`
	RentalDate string `json:"rental_date"`
	DueDate    string `json:"due_date"`
	ReturnDate string `json:"return_date,omitempty"`
	IsExtended bool   `json:"is_extended"`
}

type Article struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// Ack is the loose acknowledgement body most mutating endpoints return.
type Ack struct {
	Detail  string `json:"detail,omitempty"`
	Message string `json:"message,omitempty"`
}

// ============================================================================
// Users
// ============================================================================

type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone,omitempty"`
	IsEmployee bool   `json:"is_employee"`
	IsActive   bool   `json:"is_active"`
}

// FullName joins first and last name, skipping empty parts.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Profile is the body for register/ and users/add/.
// IsEmployee and IsActive are only honoured by users/add/.
type Profile struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`

	IsEmployee *bool `json:"is_employee,omitempty"`
	IsActive   *bool `json:"is_active,omitempty"`
}

// UserUpdate is the body for users/edit/.
type UserUpdate struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// ============================================================================
// Dashboards
// ============================================================================

type Badges struct {
	FirstBook       bool `json:"first_book"`
	TenBooks        bool `json:"ten_books"`
	TwentyBooks     bool `json:"twenty_books"`
	HundredBooks    bool `json:"hundred_books"`
	ThreeCategories bool `json:"three_categories"`
}

type Rental struct {
	ID         int64  `json:"id"`
	BookTitle  string `json:"book_title"`
	BookAuthor string `json:"book_author"`
	RentalDate string `json:"rental_date"`
	DueDate    string `json:"due_date"`
	ReturnDate string `json:"return_date,omitempty"`
	IsExtended bool   `json:"is_extended"`
}

type CategoryCount struct {
	Category string `json:"book_copy__book__category__name"`
	Count    int    `json:"count"`
}

type Notification struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

type CustomerDashboard struct {
	Username          string          `json:"username"`
	Badges            Badges          `json:"badges"`
	RentedBooks       []Rental        `json:"rented_books"`
	RentedBooksOld    []Rental        `json:"rented_books_old"`
	AllMyRents        int             `json:"all_my_rents"`
	AverageUserRents  float64         `json:"average_user_rents"`
	BooksInCategories []CategoryCount `json:"books_in_categories"`
	Notifications     []Notification  `json:"notifications"`
	AIRecommendations []string        `json:"ai_recommendations"`
	Opinions          []Opinion       `json:"opinions"`
}

// StaffRental is a rental row as the employee dashboard reports it.
type StaffRental struct {
	ID        int64  `json:"id"`
	BookTitle string `json:"book_copy__book__title"`
	Username  string `json:"user__username"`
	DueDate   string `json:"due_date"`
}

type PopularBook struct {
	BookTitle   string `json:"book_copy__book__title"`
	RentalCount int    `json:"rental_count"`
}

type EmployeeDashboard struct {
	RentedBooks      []StaffRental `json:"rented_books"`
	Customers        []User        `json:"customers"`
	TotalRentals     int           `json:"total_rentals"`
	MostRentedBooks  []PopularBook `json:"most_rented_books"`
	ReturnsToApprove []StaffRental `json:"returns_to_approve"`
}

// ============================================================================
// Token Types
// ============================================================================

// LoginRequest is the body for token/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair is the token/ response.
type TokenPair struct {
	// Access is the short-lived bearer credential
	Access string `json:"access"`

	// Refresh is exchanged at token/refresh/ for a new access token
	Refresh string `json:"refresh"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// refreshResponse carries a rotated refresh token only when the server
// rotates them.
type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// RegisterRequest is the body for register/. ConfirmPassword is checked
// client-side and never sent.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone,omitempty"`
}

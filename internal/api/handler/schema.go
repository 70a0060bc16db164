package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type credentialsRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signInResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// --- Users ---

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Admin     bool      `json:"admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type updateUserRequest struct {
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=1"`
}

type setAdminRequest struct {
	Admin *bool `json:"admin" validate:"required"`
}

// userRefResponse identifies a user inside another resource. Admin appears
// only in privileged report views.
type userRefResponse struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Admin *bool  `json:"admin,omitempty"`
}

// --- Reports ---

type createReportRequest struct {
	Price   *int64   `json:"price"   validate:"required,min=0,max=1000000"`
	Make    string   `json:"make"    validate:"required,notblank"`
	Model   string   `json:"model"   validate:"required,notblank"`
	Year    *int     `json:"year"    validate:"required,min=1950,notfuture"`
	Mileage *int64   `json:"mileage" validate:"required,min=0,max=1000000"`
	Lat     *float64 `json:"lat"     validate:"required,latitude"`
	Lng     *float64 `json:"lng"     validate:"required,longitude"`
}

type updateReportRequest struct {
	Price   *int64   `json:"price"   validate:"omitempty,min=0,max=1000000"`
	Make    *string  `json:"make"    validate:"omitempty,notblank"`
	Model   *string  `json:"model"   validate:"omitempty,notblank"`
	Year    *int     `json:"year"    validate:"omitempty,min=1950,notfuture"`
	Mileage *int64   `json:"mileage" validate:"omitempty,min=0,max=1000000"`
	Lat     *float64 `json:"lat"     validate:"omitempty,latitude"`
	Lng     *float64 `json:"lng"     validate:"omitempty,longitude"`
}

type approveReportRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

// estimateQuery holds the optional estimate criteria from the query string.
type estimateQuery struct {
	Make    string   `query:"make"`
	Model   string   `query:"model"`
	Year    *int     `query:"year"    validate:"omitempty,min=1950,notfuture"`
	Mileage *int64   `query:"mileage" validate:"omitempty,min=0,max=1000000"`
	Lat     *float64 `query:"lat"     validate:"omitempty,latitude"`
	Lng     *float64 `query:"lng"     validate:"omitempty,longitude"`
}

type reportResponse struct {
	ID        string           `json:"id"`
	Price     int64            `json:"price"`
	Make      string           `json:"make"`
	Model     string           `json:"model"`
	Year      int              `json:"year"`
	Mileage   int64            `json:"mileage"`
	Lat       float64          `json:"lat"`
	Lng       float64          `json:"lng"`
	Approved  *bool            `json:"approved,omitempty"`
	User      userRefResponse  `json:"user"`
	Reviews   []reviewResponse `json:"reviews"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type estimateResponse struct {
	// Price is null when no comparable report matched.
	Price       *float64 `json:"price"`
	Comparables int      `json:"comparables"`
}

// --- Reviews ---

type createReviewRequest struct {
	Content string `json:"content" validate:"required,notblank"`
	Rating  *int   `json:"rating"  validate:"required,min=1,max=5"`
}

type updateReviewRequest struct {
	Content *string `json:"content" validate:"omitempty,notblank"`
	Rating  *int    `json:"rating"  validate:"omitempty,min=1,max=5"`
}

type reportRefResponse struct {
	ID string `json:"id"`
}

// reviewResponse is a review as listed or embedded. Public report embeddings
// carry only id, content and rating.
type reviewResponse struct {
	ID        string             `json:"id"`
	Content   string             `json:"content"`
	Rating    int                `json:"rating"`
	User      *userRefResponse   `json:"user,omitempty"`
	Report    *reportRefResponse `json:"report,omitempty"`
	CreatedAt *time.Time         `json:"created_at,omitempty"`
}

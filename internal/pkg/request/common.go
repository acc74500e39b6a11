package request

// ByIDRequest is a common struct for endpoints that take a numeric ID path parameter.
type ByIDRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// ByDateRequest is used by endpoints keyed on a calendar date path parameter.
type ByDateRequest struct {
	Date string `uri:"date" binding:"required,datetime=2006-01-02"`
}

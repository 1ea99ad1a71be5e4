package domain

// UserDuplicateCount is one row of the per-user duplicate counter ranking.
type UserDuplicateCount struct {
	UserID int64
	Count  int64
}

package domain

type User struct {
	ID       string `db:"id"`
	Username string `db:"username"`
	Name     string `db:"name"`
	Email    string `db:"email"`
}

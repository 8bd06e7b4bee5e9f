package dto

// RegisterForm binds the registration form fields.
type RegisterForm struct {
	FirstName string `form:"nombre" binding:"required,max=80"`
	LastName  string `form:"apellido" binding:"required,max=80"`
	Email     string `form:"email" binding:"required,email,max=120"`
	Password  string `form:"password" binding:"required,min=8,max=72"`
}

// LoginForm binds the login form fields.
type LoginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

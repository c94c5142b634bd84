package routers

import (
	"net/http"

	"github.com/matheusvidal21/CoFi/internal/api/handlers/auth"
)

func usersRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /users/register", auth.RegisterUsersHandler)
	mux.HandleFunc("POST /users/login", auth.LoginHandler)
	mux.HandleFunc("POST /users/logout", auth.LogoutHandler)

	mux.HandleFunc("GET /users/profile", auth.GetProfileHandler)
	mux.HandleFunc("PATCH /users/profile", auth.UpdateProfileHandler)

	return mux
}

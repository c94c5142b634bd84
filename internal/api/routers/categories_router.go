package routers

import (
	"net/http"

	"github.com/matheusvidal21/CoFi/internal/api/handlers/categories"
)

func categoriesRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /categories/", categories.GetCategoriesHandler)

	return mux
}

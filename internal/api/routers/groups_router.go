package routers

import (
	"net/http"

	"github.com/matheusvidal21/CoFi/internal/api/handlers/groups"
)

func groupsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /groups/", groups.GetMyGroupHandler)
	mux.HandleFunc("PATCH /groups/percentages", groups.UpdatePercentagesHandler)

	return mux
}

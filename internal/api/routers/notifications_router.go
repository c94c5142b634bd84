package routers

import (
	"net/http"

	"github.com/matheusvidal21/CoFi/internal/api/handlers/notifications"
)

func notificationsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /notifications/", notifications.GetNotificationsHandler)
	mux.HandleFunc("POST /notifications/read", notifications.MarkNotificationsReadHandler)

	return mux
}

package routers

import (
	"net/http"

	"github.com/matheusvidal21/CoFi/internal/api/handlers/invites"
)

func invitesRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /invites/send", invites.SendInviteHandler)
	mux.HandleFunc("POST /invites/cancel", invites.CancelInviteHandler)
	mux.HandleFunc("GET /invites/", invites.ListInvitesHandler)
	mux.HandleFunc("GET /invites/{token}", invites.GetInviteByTokenHandler)
	mux.HandleFunc("PATCH /invites/{token}", invites.RespondInviteHandler)

	return mux
}

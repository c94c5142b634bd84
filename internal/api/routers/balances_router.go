package routers

import (
	"net/http"

	"github.com/matheusvidal21/CoFi/internal/api/handlers/balances"
)

func balancesRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /balances/pending", balances.GetPendingBalancesHandler)
	mux.HandleFunc("POST /balances/settle", balances.SettleBalanceHandler)

	return mux
}

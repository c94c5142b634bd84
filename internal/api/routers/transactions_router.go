package routers

import (
	"net/http"

	"github.com/matheusvidal21/CoFi/internal/api/handlers/transactions"
)

func transactionsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /transactions/create", transactions.CreateTransactionHandler)
	mux.HandleFunc("GET /transactions/", transactions.GetTransactionsHandler)
	mux.HandleFunc("GET /transactions/{id}", transactions.GetTransactionByIdHandler)

	return mux
}

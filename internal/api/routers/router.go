package routers

import (
	"net/http"
)

func MainRouter() *http.ServeMux {

	mux := http.NewServeMux()

	uRouter := usersRouter()
	mux.Handle("/users/", uRouter)

	tRouter := transactionsRouter()
	mux.Handle("/transactions/", tRouter)

	iRouter := invitesRouter()
	mux.Handle("/invites/", iRouter)

	gRouter := groupsRouter()
	mux.Handle("/groups/", gRouter)

	bRouter := balancesRouter()
	mux.Handle("/balances/", bRouter)

	nRouter := notificationsRouter()
	mux.Handle("/notifications/", nRouter)

	cRouter := categoriesRouter()
	mux.Handle("/categories/", cRouter)

	return mux
}

package categories

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/matheusvidal21/CoFi/internal/models"
	"github.com/matheusvidal21/CoFi/internal/repositories/sqlconnect"
	"github.com/matheusvidal21/CoFi/pkg/utils"
)

var systemCategories = []string{
	"Habitação",
	"Alimentação",
	"Transporte",
	"Saúde",
	"Lazer",
	"Educação",
	"Outros",
}

// FUNC TO LIST SYSTEM AND USER CATEGORIES
func GetCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	categories := make([]models.Category, 0, len(systemCategories))
	for _, name := range systemCategories {
		categories = append(categories, models.Category{ID: name, Name: name, IsSystem: true})
	}

	rows, err := db.QueryContext(ctx, "SELECT id, name FROM categories WHERE user_id = ?", userID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch user categories: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			utils.Logger.Errorf("error scanning category: %v", err)
			continue
		}
		categories = append(categories, models.Category{ID: strconv.Itoa(id), Name: name, IsSystem: false})
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   categories,
	})
}

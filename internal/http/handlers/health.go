package handlers

import (
	"net/http"
)

// Health answers regardless of upstream configuration.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"

	"github.com/ptchy/chiabot/internal/ledger"
)

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":   true,
		"msg":  "webhook online",
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleWebhook ingests one Telegram update. Responding 200 quickly
// matters: Telegram retries non-200 responses and redelivers the same
// update.
func (a *API) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid update payload", http.StatusBadRequest)
		return
	}

	a.bot.HandleUpdate(update)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (a *API) handleGetLedger(w http.ResponseWriter, r *http.Request) {
	session, ok := a.loadSession(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session)
}

func (a *API) handleGetSettlement(w http.ResponseWriter, r *http.Request) {
	session, ok := a.loadSession(w, r)
	if !ok {
		return
	}
	transfers, err := ledger.Settle(session.Members, session.Items)
	if err != nil {
		http.Error(w, "settlement failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"transfers": transfers,
		"rendered":  ledger.RenderTransfers(transfers),
	})
}

func (a *API) loadSession(w http.ResponseWriter, r *http.Request) (*ledger.Session, bool) {
	vars := mux.Vars(r)
	chatID, err := strconv.ParseInt(vars["chat_id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid chat_id", http.StatusBadRequest)
		return nil, false
	}
	session, err := a.store.Get(r.Context(), chatID)
	if err != nil {
		http.Error(w, "failed to load ledger", http.StatusInternalServerError)
		return nil, false
	}
	if session == nil {
		http.Error(w, "ledger not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

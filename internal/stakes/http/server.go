package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	scache "github.com/stakesapp/stakes-platform-poc/internal/stakes/cache"
	"github.com/stakesapp/stakes-platform-poc/internal/stakes/habits"
	"github.com/stakesapp/stakes-platform-poc/internal/stakes/http/dto"
	"github.com/stakesapp/stakes-platform-poc/internal/stakes/registry"
	"github.com/stakesapp/stakes-platform-poc/internal/stakes/verify"
	"github.com/stakesapp/stakes-platform-poc/internal/stakes/workflow"
	"github.com/stakesapp/stakes-platform-poc/internal/stakes/ws"
)

// API expõe os intents do fluxo de stakes via REST
// Cache de dashboard (Redis) e hub WebSocket são opcionais
type API struct {
	Log   *zap.Logger
	Ctrl  *workflow.Controller
	Cache *scache.Cache // pode ser nil (sem Redis)
	Hub   *ws.Hub       // pode ser nil

	// callbacks de métricas
	OnCreated      func()
	OnResolved     func(result string)
	OnVerifyFailed func(stage string)
}

// Router retorna o roteador HTTP com os endpoints do serviço
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/stakes", a.createStake)                       // cria aposta de hábito
	r.Get("/v1/stakes", a.listStakes)                         // lista em ordem de exibição
	r.Get("/v1/stakes/{id}", a.getStake)                      // consulta individual
	r.Post("/v1/stakes/{id}/verification", a.requestVerify)   // PENDING -> VERIFYING
	r.Post("/v1/stakes/{id}/evidence", a.submitEvidence)      // julga e resolve
	r.Post("/v1/stakes/resolved/dismiss", a.dismissResolved)  // fecha tela de resultado
	r.Get("/v1/dashboard", a.dashboard)                       // stakes + ledger
	r.Get("/v1/habits", a.listHabits)                         // catálogo de presets
	if a.Hub != nil {
		r.Get("/ws", a.Hub.HandleWS)
	}
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr mapeia os erros do domínio para códigos HTTP
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrInvalidStake):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, registry.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, registry.ErrInvalidTransition), errors.Is(err, workflow.ErrNoActiveSession):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, verify.ErrEvidenceCapture):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, verify.ErrVerificationTimeout):
		writeJSON(w, http.StatusGatewayTimeout, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func (a *API) invalidateCache(r *http.Request) {
	if a.Cache == nil {
		return
	}
	if err := a.Cache.Invalidate(r.Context()); err != nil {
		a.Log.Warn("dashboard cache invalidate", zap.Error(err))
	}
}

func (a *API) createStake(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateStakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}

	st, err := a.Ctrl.OnCreateStake(r.Context(), req.Title, req.Category, req.Icon, req.Amount, req.Deadline)
	if err != nil {
		writeErr(w, err)
		return
	}

	a.invalidateCache(r)
	if a.OnCreated != nil {
		a.OnCreated()
	}
	writeJSON(w, http.StatusCreated, dto.FromStake(st))
}

func (a *API) listStakes(w http.ResponseWriter, r *http.Request) {
	dash := a.Ctrl.ReadDashboard()
	out := make([]dto.StakeResponse, 0, len(dash.Stakes))
	for _, st := range dash.Stakes {
		out = append(out, dto.FromStake(st))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) getStake(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := a.Ctrl.FindStake(id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromStake(st))
}

func (a *API) requestVerify(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := a.Ctrl.OnRequestVerification(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}

	a.invalidateCache(r)
	writeJSON(w, http.StatusAccepted, dto.FromStake(st))
}

func (a *API) submitEvidence(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.SubmitEvidenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}

	st, err := a.Ctrl.OnEvidenceSubmitted(r.Context(), id, req.EvidenceRef)
	if err != nil {
		if a.OnVerifyFailed != nil {
			switch {
			case errors.Is(err, verify.ErrEvidenceCapture):
				a.OnVerifyFailed("capture")
			case errors.Is(err, verify.ErrVerificationTimeout):
				a.OnVerifyFailed("timeout")
			default:
				a.OnVerifyFailed("other")
			}
		}
		writeErr(w, err)
		return
	}

	a.invalidateCache(r)

	out := dto.OutcomeResponse{StakeID: st.ID, Status: st.Status}
	if o := a.Ctrl.LastOutcome(); o != nil && o.StakeID == st.ID {
		out.Result = o.Result
		out.JudgeRef = o.JudgeRef
	}
	if a.OnResolved != nil {
		a.OnResolved(out.Result)
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) dismissResolved(w http.ResponseWriter, r *http.Request) {
	a.Ctrl.OnDismissResolved()
	w.WriteHeader(http.StatusNoContent)
}

// dashboard retorna {stakes, ledger}, preferencialmente do cache
func (a *API) dashboard(w http.ResponseWriter, r *http.Request) {
	if a.Cache != nil {
		var cached dto.DashboardResponse
		if ok, _ := a.Cache.GetDashboard(r.Context(), &cached); ok {
			cached.Screen = a.Ctrl.Screen() // tela é estado transiente, nunca cacheada
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	dash := a.Ctrl.ReadDashboard()
	resp := dto.DashboardResponse{
		Stakes: make([]dto.StakeResponse, 0, len(dash.Stakes)),
		Ledger: dto.LedgerResponse{
			AtRisk: dash.Ledger.AtRisk,
			Saved:  dash.Ledger.Saved,
			Lost:   dash.Ledger.Lost,
			Streak: dash.Ledger.Streak,
		},
	}
	for _, st := range dash.Stakes {
		resp.Stakes = append(resp.Stakes, dto.FromStake(st))
	}

	if a.Cache != nil {
		_ = a.Cache.SetDashboard(r.Context(), resp, 10*time.Second) // TTL curto
	}

	resp.Screen = a.Ctrl.Screen()
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) listHabits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, habits.Presets())
}

package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/internal/usecases/analyzing"
	"github.com/vfg2006/cognitive-engine/internal/usecases/snapshotting"
	"github.com/vfg2006/cognitive-engine/pkg/apiErrors"
	"github.com/vfg2006/cognitive-engine/pkg/log"
	"github.com/vfg2006/cognitive-engine/pkg/middleware"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

// cognitiveRequest é o corpo das rotas de análise. Datas no formato 2006-01-02; dia do mês
// e dias do mês são derivados do fim do período quando omitidos.
type cognitiveRequest struct {
	PeriodStart string            `json:"periodStart"`
	PeriodEnd   string            `json:"periodEnd"`
	DayOfMonth  int               `json:"dayOfMonth"`
	DaysInMonth int               `json:"daysInMonth"`
	Metrics     domain.RawMetrics `json:"metrics"`
}

func (req cognitiveRequest) toContext(tenantID string) (domain.AnalysisContext, error) {
	if req.PeriodStart == "" || req.PeriodEnd == "" {
		return domain.AnalysisContext{}, errors.New("periodStart e periodEnd são obrigatórios")
	}

	start, err := utils.ParseDate(req.PeriodStart)
	if err != nil {
		return domain.AnalysisContext{}, errors.New("periodStart inválido")
	}
	end, err := utils.ParseDate(req.PeriodEnd)
	if err != nil {
		return domain.AnalysisContext{}, errors.New("periodEnd inválido")
	}

	actx := domain.AnalysisContext{
		TenantID:    tenantID,
		PeriodStart: *start,
		PeriodEnd:   *end,
		DayOfMonth:  req.DayOfMonth,
		DaysInMonth: req.DaysInMonth,
		Metrics:     req.Metrics,
	}
	if actx.DayOfMonth == 0 {
		actx.DayOfMonth = end.Day()
	}
	if actx.DaysInMonth == 0 {
		actx.DaysInMonth = utils.DaysInMonth(*end)
	}

	return actx, nil
}

// Analyze devolve a resposta cognitiva completa
func Analyze(analyzer analyzing.CognitiveAnalyzer, recorder snapshotting.Recorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response, ok := runAnalysis(w, r, analyzer, recorder)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, response)
	})
}

// Insights devolve apenas a projeção legada {insights, summary}
func Insights(analyzer analyzing.CognitiveAnalyzer, recorder snapshotting.Recorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response, ok := runAnalysis(w, r, analyzer, recorder)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, response.Legacy())
	})
}

func runAnalysis(
	w http.ResponseWriter,
	r *http.Request,
	analyzer analyzing.CognitiveAnalyzer,
	recorder snapshotting.Recorder,
) (*domain.CognitiveResponse, bool) {
	tenantID := httprouter.ParamsFromContext(r.Context()).ByName(middleware.TenantParam)
	logger := log.ForTenant(r.Context(), tenantID)

	var req cognitiveRequest
	if err := decodeBody(w, r, &req); err != nil {
		logger.WithError(err).Warn("cognitive: corpo inválido")
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
		return nil, false
	}

	actx, err := req.toContext(tenantID)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
		return nil, false
	}

	response, err := analyzer.Analyze(r.Context(), actx)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidContext) {
			apiErrors.WriteError(w, apiErrors.ErrInvalidContext, err.Error(), nil)
			return nil, false
		}
		logger.WithError(err).Error("cognitive: falha ao executar análise")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao executar análise", nil)
		return nil, false
	}

	enqueueDailySnapshot(r, recorder, actx)

	return response, true
}

// enqueueDailySnapshot entrega o snapshot do dia à fila. Falhas não afetam a resposta.
func enqueueDailySnapshot(r *http.Request, recorder snapshotting.Recorder, actx domain.AnalysisContext) {
	if recorder == nil {
		return
	}

	record, ok := snapshotting.RecordFromContext(actx)
	if !ok {
		return
	}

	if _, err := recorder.Enqueue(r.Context(), record); err != nil {
		log.ForTenant(r.Context(), actx.TenantID).WithError(err).Warn("cognitive: snapshot diário não enfileirado")
	}
}

type snapshotRequest struct {
	Date    string                        `json:"date"`
	Account map[string]float64            `json:"account"`
	Skus    map[string]map[string]float64 `json:"skus"`
}

// EnqueueSnapshot agenda a gravação explícita de um snapshot diário
func EnqueueSnapshot(recorder snapshotting.Recorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := httprouter.ParamsFromContext(r.Context()).ByName(middleware.TenantParam)
		logger := log.ForTenant(r.Context(), tenantID)

		var req snapshotRequest
		if err := decodeBody(w, r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		date := time.Now().UTC()
		if req.Date != "" {
			parsed, err := utils.ParseDate(req.Date)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "date inválida", nil)
				return
			}
			date = *parsed
		}

		taskID, err := recorder.Enqueue(r.Context(), domain.SnapshotRecord{
			TenantID: tenantID,
			Date:     date,
			Account:  req.Account,
			Skus:     req.Skus,
		})
		if err != nil {
			if errors.Is(err, snapshotting.ErrInvalidSnapshot) {
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
				return
			}
			logger.WithError(err).Error("snapshots: falha ao enfileirar")
			apiErrors.WriteError(w, apiErrors.ErrQueueUnavailable, "Não foi possível agendar o snapshot", nil)
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]string{
			"taskId": taskID,
			"date":   date.Format(utils.DateLayout),
		})
	})
}

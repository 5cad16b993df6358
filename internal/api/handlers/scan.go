package handlers

import (
	"net/http"

	"github.com/pratik-mahalle/creditwatch/internal/api/dto"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/logger"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/utils"
	"github.com/pratik-mahalle/creditwatch/internal/services"
)

type ScanHandler struct {
	scanService *services.ScanService
	logger      *logger.Logger
}

func NewScanHandler(scanService *services.ScanService, log *logger.Logger) *ScanHandler {
	return &ScanHandler{scanService: scanService, logger: log}
}

// Run triggers an immediate portfolio scan
// @Summary Run portfolio scan
// @Description Evaluate the current portfolio snapshot and ingest any resulting alerts
// @Tags Scans
// @Produce json
// @Success 200 {object} dto.ScanResultDTO "Scan result"
// @Failure 500 {object} utils.ErrorResponse "Scan failed"
// @Router /scans [post]
func (h *ScanHandler) Run(w http.ResponseWriter, r *http.Request) {
	result, err := h.scanService.Run(r.Context())
	if err != nil {
		utils.WriteAppError(w, err, "Portfolio scan failed")
		return
	}

	out := dto.ScanResultDTO{
		Entities:   result.Entities,
		Triggers:   result.Triggers,
		Alerts:     make([]dto.AlertDTO, 0, len(result.Alerts)),
		DurationMS: result.Duration.Milliseconds(),
	}
	for _, a := range result.Alerts {
		out.Alerts = append(out.Alerts, dto.NewAlertDTO(a))
	}

	utils.WriteSuccess(w, http.StatusOK, out)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pratik-mahalle/creditwatch/internal/api/dto"
	"github.com/pratik-mahalle/creditwatch/internal/domain/alert"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/errors"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/logger"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/utils"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/validator"
)

type NotificationHandler struct {
	store     alert.Store
	logger    *logger.Logger
	validator *validator.Validator
}

func NewNotificationHandler(store alert.Store, log *logger.Logger, val *validator.Validator) *NotificationHandler {
	return &NotificationHandler{store: store, logger: log, validator: val}
}

// GetPreferences returns the current notification preferences
// @Summary Get notification preferences
// @Tags Notifications
// @Produce json
// @Success 200 {object} dto.PreferencesDTO "Current preferences"
// @Router /notifications/preferences [get]
func (h *NotificationHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs := h.store.Preferences(r.Context())
	utils.WriteSuccess(w, http.StatusOK, dto.NewPreferencesDTO(prefs))
}

// UpdatePreferences replaces the notification preferences
// @Summary Update notification preferences
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body dto.PreferencesDTO true "New preferences"
// @Success 200 {object} dto.PreferencesDTO "Updated preferences"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or validation error"
// @Router /notifications/preferences [put]
func (h *NotificationHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req dto.PreferencesDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	if err := h.store.UpdatePreferences(r.Context(), req.ToDomain()); err != nil {
		utils.WriteAppError(w, err, "Failed to update preferences")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.NewPreferencesDTO(h.store.Preferences(r.Context())))
}

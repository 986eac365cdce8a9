package handler

import (
	"encoding/json"
	"go-jobportal-api/common"
	"go-jobportal-api/model"
	"go-jobportal-api/service"
	"net/http"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) GetCandidateProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := userIDFromContext(r)
	if appErr != nil {
		return appErr
	}

	profile, err := h.profileService.GetCandidateProfile(userID)
	if err != nil {
		return common.FromServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(profile)
	return nil
}

func (h *ProfileHandler) UpdateCandidateProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := userIDFromContext(r)
	if appErr != nil {
		return appErr
	}

	var req model.CandidateProfileRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	profile, err := h.profileService.UpdateCandidateProfile(userID, req)
	if err != nil {
		return common.FromServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(profile)
	return nil
}

func (h *ProfileHandler) GetEmployerProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := userIDFromContext(r)
	if appErr != nil {
		return appErr
	}

	profile, err := h.profileService.GetEmployerProfile(userID)
	if err != nil {
		return common.FromServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(profile)
	return nil
}

func (h *ProfileHandler) UpdateEmployerProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := userIDFromContext(r)
	if appErr != nil {
		return appErr
	}

	var req model.EmployerProfileRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	profile, err := h.profileService.UpdateEmployerProfile(userID, req)
	if err != nil {
		return common.FromServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(profile)
	return nil
}

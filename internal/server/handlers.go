package server

import (
	"encoding/base64"
	"net/http"

	"github.com/xaenox/plant-pal/internal/apperr"
	"github.com/xaenox/plant-pal/internal/models"
)

// Identification

func (s *Server) handleIdentifyByName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Name == "" {
		s.fail(w, r, apperr.Missing("name"))
		return
	}

	result, err := s.identifier.IdentifyByName(r.Context(), req.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"success": true, "data": result})
}

func (s *Server) handleIdentifyByImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Image    string `json:"image"`
		MimeType string `json:"mimeType"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Image == "" {
		s.fail(w, r, apperr.Missing("image"))
		return
	}
	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		s.fail(w, r, &apperr.ValidationError{Field: "image", Reason: "is not valid base64"})
		return
	}

	result, err := s.identifier.IdentifyByImage(r.Context(), image, req.MimeType)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"success": true, "data": result})
}

// Care guide

func (s *Server) handleGenerateCareGuide(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlantName      string `json:"plantName"`
		ScientificName string `json:"scientificName"`
		PlantID        string `json:"plantId"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.PlantName == "" {
		s.fail(w, r, apperr.Missing("plantName"))
		return
	}

	guide, cached, err := s.expert.EnsureCareGuide(r.Context(), req.PlantName, req.ScientificName, req.PlantID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"success": true, "data": guide, "cached": cached})
}

// Chat

func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
		UserID  string `json:"userId"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Message == "" {
		s.fail(w, r, apperr.Missing("message"))
		return
	}
	if req.UserID == "" {
		s.fail(w, r, apperr.Missing("userId"))
		return
	}

	reply, daysSinceAdded, err := s.expert.ChatTurn(r.Context(), r.PathValue("plantId"), req.UserID, req.Message)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{
		"success":        true,
		"response":       reply,
		"daysSinceAdded": daysSinceAdded,
	})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.storage.ListChatMessages(r.Context(), r.PathValue("plantId"), 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	s.respond(w, http.StatusOK, map[string]any{"success": true, "data": msgs})
}

func (s *Server) handleClearChatHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.ClearChatMessages(r.Context(), r.PathValue("plantId")); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"success": true})
}

// Plants

func (s *Server) handleAddPlant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID         string `json:"userId"`
		PlantName      string `json:"plantName"`
		ScientificName string `json:"scientificName"`
		Family         string `json:"family"`
		ImageURL       string `json:"imageUrl"`
		Difficulty     string `json:"difficulty"`
		IdentifiedVia  string `json:"identifiedVia"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.UserID == "" {
		s.fail(w, r, apperr.Missing("userId"))
		return
	}
	if req.PlantName == "" {
		s.fail(w, r, apperr.Missing("plantName"))
		return
	}
	if req.IdentifiedVia == "" {
		req.IdentifiedVia = "name"
	}

	plant := &models.Plant{
		UserID:         req.UserID,
		PlantName:      req.PlantName,
		ScientificName: req.ScientificName,
		Family:         req.Family,
		ImageURL:       req.ImageURL,
		Difficulty:     req.Difficulty,
		IdentifiedVia:  req.IdentifiedVia,
	}
	if err := s.storage.CreatePlant(r.Context(), plant); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"success": true, "data": plant})
}

func (s *Server) handleListPlants(w http.ResponseWriter, r *http.Request) {
	plants, err := s.storage.ListPlantsByUser(r.Context(), r.PathValue("userId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	now := timeNow()
	for i := range plants {
		plants[i].DaysGrowing = models.DaysGrowing(plants[i].CreatedAt, now)
	}
	if plants == nil {
		plants = []models.Plant{}
	}
	s.respond(w, http.StatusOK, map[string]any{"success": true, "data": plants})
}

func (s *Server) handleGetPlant(w http.ResponseWriter, r *http.Request) {
	plant, err := s.storage.GetPlant(r.Context(), r.PathValue("plantId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	plant.DaysGrowing = models.DaysGrowing(plant.CreatedAt, timeNow())
	s.respond(w, http.StatusOK, map[string]any{"success": true, "data": plant})
}

func (s *Server) handleUpdatePlant(w http.ResponseWriter, r *http.Request) {
	plant, err := s.storage.GetPlant(r.Context(), r.PathValue("plantId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req struct {
		PlantName      *string `json:"plantName"`
		ScientificName *string `json:"scientificName"`
		Family         *string `json:"family"`
		ImageURL       *string `json:"imageUrl"`
		Difficulty     *string `json:"difficulty"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.PlantName != nil {
		plant.PlantName = *req.PlantName
	}
	if req.ScientificName != nil {
		plant.ScientificName = *req.ScientificName
	}
	if req.Family != nil {
		plant.Family = *req.Family
	}
	if req.ImageURL != nil {
		plant.ImageURL = *req.ImageURL
	}
	if req.Difficulty != nil {
		plant.Difficulty = *req.Difficulty
	}

	if err := s.storage.UpdatePlant(r.Context(), plant); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"success": true, "data": plant})
}

func (s *Server) handleDeletePlant(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.DeletePlant(r.Context(), r.PathValue("plantId")); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"success": true})
}

// Journal

func (s *Server) handleListJournal(w http.ResponseWriter, r *http.Request) {
	entries, err := s.storage.ListJournalEntries(r.Context(), r.PathValue("plantId"), 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	s.respond(w, http.StatusOK, map[string]any{"success": true, "data": entries})
}

func (s *Server) handleAddJournalEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlantID  string `json:"plantId"`
		UserID   string `json:"userId"`
		Note     string `json:"note"`
		ImageURL string `json:"imageUrl"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.PlantID == "" {
		s.fail(w, r, apperr.Missing("plantId"))
		return
	}
	if req.UserID == "" {
		s.fail(w, r, apperr.Missing("userId"))
		return
	}

	entry := &models.JournalEntry{
		PlantID:  req.PlantID,
		UserID:   req.UserID,
		Note:     req.Note,
		ImageURL: req.ImageURL,
	}
	if err := s.storage.CreateJournalEntry(r.Context(), entry); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"success": true, "data": entry})
}

func (s *Server) handleDeleteJournalEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.DeleteJournalEntry(r.Context(), r.PathValue("entryId")); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"success": true})
}

// Notifications

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := s.storage.ListNotificationsByUser(r.Context(), r.PathValue("userId"), 50)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	s.respond(w, http.StatusOK, map[string]any{"success": true, "data": notifications})
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.MarkNotificationRead(r.Context(), r.PathValue("notifId")); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.MarkAllNotificationsRead(r.Context(), r.PathValue("userId")); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"success": true})
}

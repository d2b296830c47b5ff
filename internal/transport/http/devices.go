package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/septivank/energy-harmony/internal/apperr"
	"github.com/septivank/energy-harmony/internal/db"
	"github.com/septivank/energy-harmony/internal/service"
)

type deviceRequestJSON struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Consumption *float64 `json:"consumption"`
	IsActive    *bool    `json:"isActive"`
}

func (d deviceRequestJSON) input() service.DeviceInput {
	return service.DeviceInput{
		Name:        d.Name,
		Type:        d.Type,
		Consumption: d.Consumption,
		IsActive:    d.IsActive,
	}
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	devices, err := s.deps.Devices.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, lo.Map(devices, func(d db.Device, _ int) deviceJSON {
		return toDeviceJSON(d)
	}))
}

func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req deviceRequestJSON
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	device, err := s.deps.Devices.Create(r.Context(), userID, req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusCreated, toDeviceJSON(*device))
}

func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	deviceID, ok := s.devicePathID(w, r)
	if !ok {
		return
	}

	var req deviceRequestJSON
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	device, err := s.deps.Devices.Update(r.Context(), userID, deviceID, req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, toDeviceJSON(*device))
}

func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	deviceID, ok := s.devicePathID(w, r)
	if !ok {
		return
	}

	if err := s.deps.Devices.Delete(r.Context(), userID, deviceID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Device deleted")
}

// devicePathID parses {id}; a malformed id can't name an owned device
func (s *Server) devicePathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, apperr.New(apperr.NotFound, "Device not found"))
		return uuid.Nil, false
	}
	return id, true
}

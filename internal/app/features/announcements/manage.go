// internal/app/features/announcements/manage.go

// Mutations on the announcement board. Captains are pinned to their own
// house; edits and deletions require ownership or the admin role.
package announcements

import (
	"errors"
	"net/http"

	announcementstore "github.com/campusgames/meethub/internal/app/store/announcements"
	housestore "github.com/campusgames/meethub/internal/app/store/houses"
	"github.com/campusgames/meethub/internal/app/system/apperr"
	appauth "github.com/campusgames/meethub/internal/app/system/auth"
	"github.com/campusgames/meethub/internal/app/system/authz"
	"github.com/campusgames/meethub/internal/app/system/htmlsanitize"
	"github.com/campusgames/meethub/internal/app/system/httpjson"
	"github.com/campusgames/meethub/internal/app/system/inputval"
	"github.com/campusgames/meethub/internal/app/system/normalize"
	"github.com/campusgames/meethub/internal/domain/events"
	"github.com/campusgames/meethub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	maxTitleLen   = 200
	maxMessageLen = 1000
)

type createRequest struct {
	Title    string  `json:"title"`
	Message  string  `json:"message"`
	Priority string  `json:"priority"`
	HouseID  *string `json:"house_id"`
}

// HandleCreate handles POST /announcements.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, _ := appauth.CurrentUser(r)

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	title := htmlsanitize.Strip(req.Title)
	message := htmlsanitize.Strip(req.Message)
	if err := validateContent(title, message); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	priority := normalize.Keyword(req.Priority)
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		httpjson.Error(w, h.Log, apperr.Validationf("Unknown priority %q", req.Priority))
		return
	}

	houseID, err := h.resolveScope(r, id, req.HouseID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	a, err := h.Announcements.Create(r.Context(), models.Announcement{
		Title:       title,
		Message:     message,
		Priority:    priority,
		HouseID:     houseID,
		CreatedByID: id.ID,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ev := events.Event{Name: events.NewAnnouncement, Payload: &a}
	if a.HouseID != nil {
		ev.HouseIDs = []primitive.ObjectID{*a.HouseID}
	}
	h.Pub.Publish(ev)

	h.Log.Info("announcement posted",
		zap.String("announcement_id", a.ID.Hex()),
		zap.String("priority", a.Priority))
	httpjson.Write(w, http.StatusCreated, &a)
}

type updateRequest struct {
	Title    *string `json:"title"`
	Message  *string `json:"message"`
	Priority *string `json:"priority"`
	HouseID  *string `json:"house_id"` // "" widens to global
}

// HandleUpdate handles PUT /announcements/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, _ := appauth.CurrentUser(r)

	aid, err := announcementID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	a, err := h.load(r, aid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !authz.CanManageAnnouncement(id, a) {
		httpjson.Error(w, h.Log, apperr.Forbiddenf("Only the author or an admin can modify this announcement"))
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	upd := announcementstore.Update{}

	if req.Title != nil {
		title := htmlsanitize.Strip(*req.Title)
		if err := inputval.Required(title, "title"); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		if err := inputval.MaxLen(title, "title", maxTitleLen); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		upd.Title = &title
	}
	if req.Message != nil {
		message := htmlsanitize.Strip(*req.Message)
		if err := inputval.Required(message, "message"); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		if err := inputval.MaxLen(message, "message", maxMessageLen); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		upd.Message = &message
	}
	if req.Priority != nil {
		priority := normalize.Keyword(*req.Priority)
		if !models.ValidPriority(priority) {
			httpjson.Error(w, h.Log, apperr.Validationf("Unknown priority %q", *req.Priority))
			return
		}
		upd.Priority = &priority
	}
	if req.HouseID != nil {
		if *req.HouseID == "" {
			upd.ClearHouse = true
		} else {
			houseID, err := h.resolveScope(r, id, req.HouseID)
			if err != nil {
				httpjson.Error(w, h.Log, err)
				return
			}
			upd.HouseID = houseID
		}
	}

	if err := h.Announcements.Apply(r.Context(), aid, upd); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	updated, err := h.Announcements.GetByID(r.Context(), aid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /announcements/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := appauth.CurrentUser(r)

	aid, err := announcementID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	a, err := h.load(r, aid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !authz.CanManageAnnouncement(id, a) {
		httpjson.Error(w, h.Log, apperr.Forbiddenf("Only the author or an admin can delete this announcement"))
		return
	}

	if err := h.Announcements.Delete(r.Context(), aid); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "Announcement deleted"})
}

// HandleToggle handles PATCH /announcements/{id}/toggle.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	aid, err := announcementID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	a, err := h.load(r, aid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := h.Announcements.SetActive(r.Context(), aid, !a.IsActive); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	updated, err := h.Announcements.GetByID(r.Context(), aid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, updated)
}

func (h *Handler) load(r *http.Request, aid primitive.ObjectID) (*models.Announcement, error) {
	a, err := h.Announcements.GetByID(r.Context(), aid)
	if err != nil {
		if errors.Is(err, announcementstore.ErrNotFound) {
			return nil, apperr.NotFoundf("Announcement not found")
		}
		return nil, err
	}
	return a, nil
}

// resolveScope validates the requested house scope. Captains always post
// to their own house regardless of the request; others may target any
// existing house or leave the announcement global.
func (h *Handler) resolveScope(r *http.Request, id *appauth.Identity, raw *string) (*primitive.ObjectID, error) {
	if captainHouse, isCaptain := authz.CaptainHouse(id); isCaptain {
		if captainHouse == nil {
			return nil, apperr.Forbiddenf("Captains without a house cannot post announcements")
		}
		return captainHouse, nil
	}

	if raw == nil || *raw == "" {
		return nil, nil
	}
	hid, err := primitive.ObjectIDFromHex(*raw)
	if err != nil {
		return nil, apperr.Validationf("Invalid house id")
	}
	if _, err := h.Houses.GetByID(r.Context(), hid); err != nil {
		if errors.Is(err, housestore.ErrNotFound) {
			return nil, apperr.NotFoundf("House not found")
		}
		return nil, err
	}
	return &hid, nil
}

func validateContent(title, message string) error {
	if err := inputval.Required(title, "title"); err != nil {
		return err
	}
	if err := inputval.MaxLen(title, "title", maxTitleLen); err != nil {
		return err
	}
	if err := inputval.Required(message, "message"); err != nil {
		return err
	}
	return inputval.MaxLen(message, "message", maxMessageLen)
}

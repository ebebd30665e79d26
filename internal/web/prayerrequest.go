package web

import (
	"fmt"
	"net/http"

	"github.com/prayerpartner/service-web-go/internal/session"
	"github.com/prayerpartner/service-web-go/internal/store/entity"
)

// CreatePrayerRequest handles the new prayer request form submission under a
// category. The mirror copy is the façade's concern; from here a false just
// means "nothing was created".
func (h *Handler) CreatePrayerRequest(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "categoryId")
	if !ok {
		session.AddFlash(w, r, "error", "Category not found.")
		http.Redirect(w, r, "/categories", http.StatusFound)
		return
	}
	title := trimmed(r.PostFormValue("prayerRequestTitle"))
	st := h.store(r)

	if !validTitle(title) {
		category, err := st.LoadCategory(r.Context(), categoryID)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		if category == nil {
			session.AddFlash(w, r, "error", "Category not found.")
			http.Redirect(w, r, "/categories", http.StatusFound)
			return
		}
		requests, err := st.UnansweredPrayerRequests(r.Context(), categoryID)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		h.render(w, r, "category", categoryData{
			Category:           category,
			PrayerRequests:     requests,
			PrayerRequestTitle: title,
			Pagination:         paginate(fmt.Sprintf("/categories/%d", categoryID), 1, len(requests)),
		}, session.Flash{Kind: "error", Text: "Prayer request must be between 1 and 70 characters."})
		return
	}

	created, err := st.CreatePrayerRequest(r.Context(), categoryID, title)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !created {
		session.AddFlash(w, r, "error", "Error creating prayer request.")
	} else {
		session.AddFlash(w, r, "success", "Prayer request added.")
	}
	http.Redirect(w, r, fmt.Sprintf("/categories/%d", categoryID), http.StatusFound)
}

type editPrayerRequestData struct {
	Category           *entity.Category
	PrayerRequest      *entity.PrayerRequest
	PrayerRequestTitle string
}

// EditPrayerRequestForm renders the prayer request retitle page.
func (h *Handler) EditPrayerRequestForm(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "categoryId")
	if !ok {
		session.AddFlash(w, r, "error", "Category not found.")
		http.Redirect(w, r, "/categories", http.StatusFound)
		return
	}
	prayerRequestID, ok := pathID(r, "prayerRequestId")
	if !ok {
		session.AddFlash(w, r, "error", "Prayer request not found.")
		http.Redirect(w, r, fmt.Sprintf("/categories/%d", categoryID), http.StatusFound)
		return
	}

	st := h.store(r)
	category, err := st.LoadCategory(r.Context(), categoryID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	request, err := st.LoadPrayerRequest(r.Context(), categoryID, prayerRequestID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if request == nil {
		session.AddFlash(w, r, "error", "Prayer request not found.")
		http.Redirect(w, r, fmt.Sprintf("/categories/%d", categoryID), http.StatusFound)
		return
	}

	h.render(w, r, "edit-prayer-request", editPrayerRequestData{
		Category:           category,
		PrayerRequest:      request,
		PrayerRequestTitle: request.Title,
	})
}

// EditPrayerRequest handles the prayer request retitle form submission.
func (h *Handler) EditPrayerRequest(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "categoryId")
	if !ok {
		session.AddFlash(w, r, "error", "Category not found.")
		http.Redirect(w, r, "/categories", http.StatusFound)
		return
	}
	prayerRequestID, ok := pathID(r, "prayerRequestId")
	if !ok {
		session.AddFlash(w, r, "error", "Prayer request not found.")
		http.Redirect(w, r, fmt.Sprintf("/categories/%d", categoryID), http.StatusFound)
		return
	}
	title := trimmed(r.PostFormValue("prayerRequestTitle"))
	st := h.store(r)

	if !validTitle(title) {
		category, err := st.LoadCategory(r.Context(), categoryID)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		request, err := st.LoadPrayerRequest(r.Context(), categoryID, prayerRequestID)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		if request == nil {
			session.AddFlash(w, r, "error", "Prayer request not found.")
			http.Redirect(w, r, fmt.Sprintf("/categories/%d", categoryID), http.StatusFound)
			return
		}
		h.render(w, r, "edit-prayer-request", editPrayerRequestData{
			Category:           category,
			PrayerRequest:      request,
			PrayerRequestTitle: title,
		}, session.Flash{Kind: "error", Text: "Prayer request title must be between 1 and 70 characters."})
		return
	}

	updated, err := st.SetPrayerRequestTitle(r.Context(), prayerRequestID, title)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !updated {
		session.AddFlash(w, r, "error", "Error updating prayer request title.")
	} else {
		session.AddFlash(w, r, "success", "Prayer request title updated.")
	}
	http.Redirect(w, r, fmt.Sprintf("/categories/%d", categoryID), http.StatusFound)
}

// AnswerPrayerRequest marks a prayer request answered.
func (h *Handler) AnswerPrayerRequest(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "categoryId")
	if !ok {
		session.AddFlash(w, r, "error", "Category not found.")
		http.Redirect(w, r, "/categories", http.StatusFound)
		return
	}
	prayerRequestID, ok := pathID(r, "prayerRequestId")
	if !ok {
		session.AddFlash(w, r, "error", "Prayer request not found.")
		http.Redirect(w, r, fmt.Sprintf("/categories/%d", categoryID), http.StatusFound)
		return
	}

	answered, err := h.store(r).AnswerPrayerRequest(r.Context(), prayerRequestID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !answered {
		session.AddFlash(w, r, "error", "Prayer request not found.")
	} else {
		session.AddFlash(w, r, "success", "The prayer request has been moved to 'Answered Prayer Requests.'")
	}
	http.Redirect(w, r, fmt.Sprintf("/categories/%d", categoryID), http.StatusFound)
}

// DeletePrayerRequest removes an unanswered prayer request.
func (h *Handler) DeletePrayerRequest(w http.ResponseWriter, r *http.Request) {
	h.deletePrayerRequest(w, r, "The prayer request has been deleted.", "")
}

// DeleteAnsweredPrayerRequest removes an answered prayer request and returns
// to the answered list.
func (h *Handler) DeleteAnsweredPrayerRequest(w http.ResponseWriter, r *http.Request) {
	h.deletePrayerRequest(w, r, "The answered prayer request has been deleted.", "/answered")
}

func (h *Handler) deletePrayerRequest(w http.ResponseWriter, r *http.Request, successText, backSuffix string) {
	categoryID, ok := pathID(r, "categoryId")
	if !ok {
		session.AddFlash(w, r, "error", "Category not found.")
		http.Redirect(w, r, "/categories", http.StatusFound)
		return
	}
	back := fmt.Sprintf("/categories/%d%s", categoryID, backSuffix)

	prayerRequestID, ok := pathID(r, "prayerRequestId")
	if !ok {
		session.AddFlash(w, r, "error", "Prayer request not found.")
		http.Redirect(w, r, back, http.StatusFound)
		return
	}

	deleted, err := h.store(r).DeletePrayerRequest(r.Context(), prayerRequestID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !deleted {
		session.AddFlash(w, r, "error", "Prayer request not found.")
	} else {
		session.AddFlash(w, r, "success", successText)
	}
	http.Redirect(w, r, back, http.StatusFound)
}

package web

import (
	"fmt"
	"net/http"

	"github.com/prayerpartner/service-web-go/internal/session"
	"github.com/prayerpartner/service-web-go/internal/store/entity"
)

// Home redirects the start page to the category list.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/categories", http.StatusFound)
}

type categoriesData struct {
	Categories []*entity.Category
	Pagination pagination
}

// Categories renders the paginated category list.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	pageNo, ok := currentPage(r)
	if !ok {
		session.AddFlash(w, r, "error", "Invalid page number.")
		http.Redirect(w, r, "/categories", http.StatusFound)
		return
	}

	st := h.store(r)
	all, err := st.SortedCategories(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	offset := (pageNo - 1) * itemsPerPage
	categories, err := st.PaginatedCategories(r.Context(), itemsPerPage, offset)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, "categories", categoriesData{
		Categories: categories,
		Pagination: paginate("/categories", pageNo, len(all)),
	})
}

type newCategoryData struct {
	CategoryTitle string
}

// NewCategoryForm renders the category creation page.
func (h *Handler) NewCategoryForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "new-category", newCategoryData{})
}

// CreateCategory handles the category creation form submission.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	title := trimmed(r.PostFormValue("categoryTitle"))
	st := h.store(r)

	if !validTitle(title) {
		h.render(w, r, "new-category", newCategoryData{CategoryTitle: title},
			session.Flash{Kind: "error", Text: "Category title must be between 1 and 70 characters."})
		return
	}

	exists, err := st.ExistsCategoryTitle(r.Context(), title)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if exists {
		h.render(w, r, "new-category", newCategoryData{CategoryTitle: title},
			session.Flash{Kind: "error", Text: "The category title must be unique."})
		return
	}

	created, err := st.CreateCategory(r.Context(), title)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !created {
		session.AddFlash(w, r, "error", "Error creating category.")
	} else {
		session.AddFlash(w, r, "success", "The category has been created.")
	}
	http.Redirect(w, r, "/categories", http.StatusFound)
}

type categoryData struct {
	Category           *entity.Category
	PrayerRequests     []*entity.PrayerRequest
	PrayerRequestTitle string
	Pagination         pagination
}

// Category renders one category with its unanswered prayer requests paginated.
func (h *Handler) Category(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "categoryId")
	if !ok {
		session.AddFlash(w, r, "error", "Category not found.")
		http.Redirect(w, r, "/categories", http.StatusFound)
		return
	}
	pageNo, ok := currentPage(r)
	if !ok {
		session.AddFlash(w, r, "error", "Invalid page number.")
		http.Redirect(w, r, fmt.Sprintf("/categories/%d", categoryID), http.StatusFound)
		return
	}

	st := h.store(r)
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

	total := len(category.Unanswered())
	offset := (pageNo - 1) * itemsPerPage
	requests, err := st.PaginatedUnansweredPrayerRequests(r.Context(), categoryID, itemsPerPage, offset)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, "category", categoryData{
		Category:       category,
		PrayerRequests: requests,
		Pagination:     paginate(fmt.Sprintf("/categories/%d", categoryID), pageNo, total),
	})
}

// AnsweredPrayerRequests renders a category's answered prayer requests paginated.
func (h *Handler) AnsweredPrayerRequests(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "categoryId")
	if !ok {
		session.AddFlash(w, r, "error", "Category not found.")
		http.Redirect(w, r, "/categories", http.StatusFound)
		return
	}
	pageNo, ok := currentPage(r)
	if !ok {
		session.AddFlash(w, r, "error", "Invalid page number.")
		http.Redirect(w, r, fmt.Sprintf("/categories/%d/answered", categoryID), http.StatusFound)
		return
	}

	st := h.store(r)
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

	total := len(category.Answered())
	offset := (pageNo - 1) * itemsPerPage
	requests, err := st.PaginatedAnsweredPrayerRequests(r.Context(), categoryID, itemsPerPage, offset)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, "answered", categoryData{
		Category:       category,
		PrayerRequests: requests,
		Pagination:     paginate(fmt.Sprintf("/categories/%d/answered", categoryID), pageNo, total),
	})
}

type editCategoryData struct {
	Category      *entity.Category
	CategoryTitle string
}

// EditCategoryForm renders the category retitle page.
func (h *Handler) EditCategoryForm(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "categoryId")
	if !ok {
		session.AddFlash(w, r, "error", "Category not found.")
		http.Redirect(w, r, "/categories", http.StatusFound)
		return
	}

	category, err := h.store(r).LoadCategory(r.Context(), categoryID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if category == nil {
		session.AddFlash(w, r, "error", "Category not found.")
		http.Redirect(w, r, "/categories", http.StatusFound)
		return
	}
	h.render(w, r, "edit-category", editCategoryData{Category: category, CategoryTitle: category.Title})
}

// EditCategory handles the category retitle form submission.
func (h *Handler) EditCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "categoryId")
	if !ok {
		session.AddFlash(w, r, "error", "Category not found.")
		http.Redirect(w, r, "/categories", http.StatusFound)
		return
	}
	title := trimmed(r.PostFormValue("categoryTitle"))
	st := h.store(r)

	rerender := func(problem session.Flash) {
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
		h.render(w, r, "edit-category", editCategoryData{Category: category, CategoryTitle: title}, problem)
	}

	if !validTitle(title) {
		rerender(session.Flash{Kind: "error", Text: "Category title must be between 1 and 70 characters."})
		return
	}
	exists, err := st.ExistsCategoryTitle(r.Context(), title)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if exists {
		rerender(session.Flash{Kind: "error", Text: "The category title must be unique."})
		return
	}

	updated, err := st.SetCategoryTitle(r.Context(), categoryID, title)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !updated {
		session.AddFlash(w, r, "error", "Error updating category title.")
	} else {
		session.AddFlash(w, r, "success", "Category updated.")
	}
	http.Redirect(w, r, fmt.Sprintf("/categories/%d", categoryID), http.StatusFound)
}

// DeleteCategory removes a category and, via the cascade, its prayer requests.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "categoryId")
	if !ok {
		session.AddFlash(w, r, "error", "Category not found.")
		http.Redirect(w, r, "/categories", http.StatusFound)
		return
	}

	deleted, err := h.store(r).DeleteCategory(r.Context(), categoryID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !deleted {
		session.AddFlash(w, r, "error", "Category not found.")
	} else {
		session.AddFlash(w, r, "success", "Category deleted.")
	}
	http.Redirect(w, r, "/categories", http.StatusFound)
}

package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-directory/internal/application"
	"github.com/oksasatya/user-directory/internal/domain/entity"
	"github.com/oksasatya/user-directory/pkg/session"
	"github.com/oksasatya/user-directory/pkg/validation"
)

const avatarField = "user[avatarFile]"

type UserHandler struct {
	Profiles *application.ProfileService
	R        *Renderer
}

func NewUserHandler(profiles *application.ProfileService, r *Renderer) *UserHandler {
	return &UserHandler{Profiles: profiles, R: r}
}

type profileRow struct {
	Profile   entity.UserProfile
	AvatarURL string
}

type pageLink struct {
	Number  int
	URL     string
	Current bool
}

// List GET /user?search=&date_from=&date_to=&page=
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	in := application.ProfileListInput{
		Search:   c.Query("search"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
		Page:     page,
	}
	res, warnings, err := h.Profiles.List(c.Request.Context(), in)
	if err != nil {
		h.R.ServerError(c, err)
		return
	}

	rows := make([]profileRow, 0, len(res.Items))
	for _, p := range res.Items {
		rows = append(rows, profileRow{Profile: p, AvatarURL: h.Profiles.AvatarURL(p.Avatar)})
	}
	links := make([]pageLink, 0, res.TotalPages)
	for _, n := range res.Pages() {
		links = append(links, pageLink{Number: n, URL: listURL(in, n), Current: n == res.Page})
	}
	data := gin.H{
		"Title":    h.R.T(c, "users.title", nil),
		"Page":     res,
		"Rows":     rows,
		"Links":    links,
		"Search":   in.Search,
		"DateFrom": in.DateFrom,
		"DateTo":   in.DateTo,
	}
	if res.HasPrev() {
		data["PrevURL"] = listURL(in, res.PrevPage())
	}
	if res.HasNext() {
		data["NextURL"] = listURL(in, res.NextPage())
	}
	h.R.HTML(c, http.StatusOK, "users_index.html", data, warnings)
}

// listURL keeps the active filters when linking to another page.
func listURL(in application.ProfileListInput, page int) string {
	q := url.Values{}
	if in.Search != "" {
		q.Set("search", in.Search)
	}
	if in.DateFrom != "" {
		q.Set("date_from", in.DateFrom)
	}
	if in.DateTo != "" {
		q.Set("date_to", in.DateTo)
	}
	q.Set("page", strconv.Itoa(page))
	return "/user?" + q.Encode()
}

// New GET /user/new
func (h *UserHandler) New(c *gin.Context) {
	h.renderForm(c, http.StatusOK, nil, application.ProfileInput{}, nil)
}

// Create POST /user/new
func (h *UserHandler) Create(c *gin.Context) {
	var in application.ProfileInput
	_ = c.ShouldBind(&in)

	p, err := h.Profiles.Create(c.Request.Context(), in, formAvatar(c))
	if err != nil {
		h.formFailed(c, nil, in, err)
		return
	}
	h.R.Flash(c, session.Success, "users.created", map[string]any{"Name": p.Name})
	redirect(c, "/user")
}

// Show GET /user/:id
func (h *UserHandler) Show(c *gin.Context) {
	p, ok := h.load(c)
	if !ok {
		return
	}
	h.R.HTML(c, http.StatusOK, "users_show.html", gin.H{
		"Title":       p.Name,
		"Profile":     p,
		"AvatarURL":   h.Profiles.AvatarURL(p.Avatar),
		"DeleteToken": session.CSRFToken(c, deleteIntent(p.ID)),
	}, nil)
}

// Edit GET /user/:id/edit
func (h *UserHandler) Edit(c *gin.Context) {
	p, ok := h.load(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, p, application.ProfileInputFrom(p), nil)
}

// Update POST /user/:id/edit
func (h *UserHandler) Update(c *gin.Context) {
	p, ok := h.load(c)
	if !ok {
		return
	}
	var in application.ProfileInput
	_ = c.ShouldBind(&in)

	updated, err := h.Profiles.Update(c.Request.Context(), p.ID, in, formAvatar(c))
	if err != nil {
		if application.IsNotFound(err) {
			h.R.NotFound(c)
			return
		}
		h.formFailed(c, p, in, err)
		return
	}
	h.R.Flash(c, session.Success, "users.updated", map[string]any{"Name": updated.Name})
	redirect(c, "/user")
}

// Delete POST /user/:id (_token required)
func (h *UserHandler) Delete(c *gin.Context) {
	p, ok := h.load(c)
	if !ok {
		return
	}
	if !session.ValidCSRF(c, deleteIntent(p.ID), c.PostForm("_token")) {
		h.R.Flash(c, session.Error, "form.invalid_csrf", nil)
		redirect(c, "/user")
		return
	}
	deleted, err := h.Profiles.Delete(c.Request.Context(), p.ID)
	if err != nil {
		if application.IsNotFound(err) {
			h.R.NotFound(c)
			return
		}
		h.R.ServerError(c, err)
		return
	}
	h.R.Flash(c, session.Success, "users.deleted", map[string]any{"Name": deleted.Name})
	redirect(c, "/user")
}

func deleteIntent(id int64) string {
	return "delete" + strconv.FormatInt(id, 10)
}

// load resolves :id, rendering the 404 page when it does not exist.
func (h *UserHandler) load(c *gin.Context) (*entity.UserProfile, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.R.NotFound(c)
		return nil, false
	}
	p, err := h.Profiles.Get(c.Request.Context(), id)
	if err != nil {
		if application.IsNotFound(err) {
			h.R.NotFound(c)
		} else {
			h.R.ServerError(c, err)
		}
		return nil, false
	}
	return p, true
}

func formAvatar(c *gin.Context) *application.AvatarUpload {
	fh, err := c.FormFile(avatarField)
	if err != nil {
		return nil
	}
	return application.AvatarFromHeader(fh)
}

// formFailed re-renders the form for validation and avatar failures.
func (h *UserHandler) formFailed(c *gin.Context, existing *entity.UserProfile, in application.ProfileInput, err error) {
	var (
		ferr *application.FormError
		aerr *application.AvatarError
	)
	switch {
	case errors.As(err, &ferr):
		h.renderForm(c, http.StatusOK, existing, in, ferr.Fields)
	case errors.As(err, &aerr):
		session.AddFlash(c, session.Error, aerr.Message)
		h.renderForm(c, http.StatusOK, existing, in, nil)
	default:
		h.R.ServerError(c, err)
	}
}

func (h *UserHandler) renderForm(c *gin.Context, status int, existing *entity.UserProfile, in application.ProfileInput, errs validation.FieldErrors) {
	data := gin.H{"Form": in}
	if existing == nil {
		data["Title"] = h.R.T(c, "users.create", nil)
		data["Heading"] = h.R.T(c, "users.create", nil)
		data["Action"] = "/user/new"
	} else {
		data["Title"] = h.R.T(c, "users.edit", nil)
		data["Heading"] = h.R.T(c, "users.edit", nil)
		data["Action"] = "/user/" + strconv.FormatInt(existing.ID, 10) + "/edit"
		data["ID"] = existing.ID
		data["AvatarURL"] = h.Profiles.AvatarURL(existing.Avatar)
		data["DeleteToken"] = session.CSRFToken(c, deleteIntent(existing.ID))
	}
	h.R.HTML(c, status, "users_form.html", data, errs)
}

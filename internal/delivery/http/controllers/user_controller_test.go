package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invitesmanager/internal/delivery/http/helpers"
	"invitesmanager/internal/domain"
)

func TestUserController_ListUsers(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		total     int
		users     []*domain.User
		wantPage  int
		wantSize  int
		wantPages int
	}{
		{name: "defaults", query: "", total: 0, wantPage: 1, wantSize: 20, wantPages: 0},
		{name: "explicit page", query: "?page=2&page_size=10", total: 25, users: []*domain.User{{ID: "u11"}}, wantPage: 2, wantSize: 10, wantPages: 3},
		{name: "page size clamped", query: "?page_size=500", total: 1, users: []*domain.User{{ID: "u1"}}, wantPage: 1, wantSize: 100, wantPages: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUserService{users: tt.users, total: tt.total}
			responder, _ := newTestResponder()
			ctrl := NewUserController(responder, fake)
			rr := httptest.NewRecorder()

			ctrl.ListUsers(rr, withCaller(httptest.NewRequest(http.MethodGet, "/users"+tt.query, nil)))

			require.Equal(t, http.StatusOK, rr.Code)
			var resp ListUsersResponse
			decodeData(t, decodeEnvelope(t, rr), &resp)
			assert.NotNil(t, resp.Items)
			assert.Len(t, resp.Items, len(tt.users))
			assert.Equal(t, tt.wantPage, resp.Pagination.Page)
			assert.Equal(t, tt.wantSize, resp.Pagination.PageSize)
			assert.Equal(t, tt.total, resp.Pagination.Total)
			assert.Equal(t, tt.wantPages, resp.Pagination.TotalPages)
			assert.Equal(t, domain.PaginationParams{Page: tt.wantPage, PageSize: tt.wantSize}, fake.lastParams)
		})
	}
}

func TestUserController_CreateUser(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fakeErr    error
		wantStatus int
		wantFields []string
		checkInput func(t *testing.T, in domain.UserInput)
	}{
		{
			name:       "with roles and password",
			body:       `{"username":"maria","email":"maria@example.com","password":"s3cretpass","roles":["invitesAdmin"],"isActive":false}`,
			wantStatus: http.StatusCreated,
			checkInput: func(t *testing.T, in domain.UserInput) {
				assert.Equal(t, "maria", in.Username)
				require.NotNil(t, in.Password)
				assert.Equal(t, "s3cretpass", *in.Password)
				assert.Equal(t, []string{"invitesAdmin"}, in.Roles)
				require.NotNil(t, in.IsActive)
				assert.False(t, *in.IsActive)
			},
		},
		{
			name:       "without password",
			body:       `{"username":"maria","email":"maria@example.com"}`,
			wantStatus: http.StatusCreated,
			checkInput: func(t *testing.T, in domain.UserInput) {
				assert.Nil(t, in.Password)
				assert.Nil(t, in.IsActive)
			},
		},
		{
			name:       "short password",
			body:       `{"username":"maria","email":"maria@example.com","password":"short"}`,
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"password"},
		},
		{
			name:       "username looks like an email",
			body:       `{"username":"maria@x","email":"maria@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"username"},
		},
		{
			name:       "duplicate email",
			body:       `{"username":"maria","email":"maria@example.com"}`,
			fakeErr:    domain.ErrDuplicateEmail,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unknown role",
			body:       `{"username":"maria","email":"maria@example.com","roles":["root"]}`,
			fakeErr:    domain.ErrInvalidInput,
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUserService{err: tt.fakeErr, user: &domain.User{ID: testUserID, Username: "maria"}}
			responder, _ := newTestResponder()
			ctrl := NewUserController(responder, fake)
			req := withCaller(httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(tt.body)))
			rr := httptest.NewRecorder()

			ctrl.CreateUser(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			for _, f := range tt.wantFields {
				assert.Contains(t, detailFields(envelope), f)
			}
			if tt.checkInput != nil {
				tt.checkInput(t, fake.lastInput)
			}
		})
	}
}

func TestUserController_UpdateUser(t *testing.T) {
	fake := &fakeUserService{user: &domain.User{ID: testUserID}}
	responder, _ := newTestResponder()
	ctrl := NewUserController(responder, fake)
	req := withCaller(httptest.NewRequest(http.MethodPut, "/users/"+testUserID, bytes.NewBufferString(`{"firstName":"Maria","roles":["admin"]}`)))
	req.SetPathValue("id", testUserID)
	rr := httptest.NewRecorder()

	ctrl.UpdateUser(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, testUserID, fake.lastID)
	assert.Equal(t, "Maria", fake.lastInput.FirstName)
	assert.Empty(t, fake.lastInput.Username)
	assert.Equal(t, []string{"admin"}, fake.lastInput.Roles)
}

func TestUserController_GetAndDelete(t *testing.T) {
	t.Run("get missing user", func(t *testing.T) {
		responder, _ := newTestResponder()
		ctrl := NewUserController(responder, &fakeUserService{err: domain.ErrUserNotFound})
		req := withCaller(httptest.NewRequest(http.MethodGet, "/users/"+testUserID, nil))
		req.SetPathValue("id", testUserID)
		rr := httptest.NewRecorder()

		ctrl.GetUser(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, helpers.ErrCodeNotFound, decodeEnvelope(t, rr).Error.Code)
	})

	t.Run("delete", func(t *testing.T) {
		fake := &fakeUserService{}
		responder, _ := newTestResponder()
		ctrl := NewUserController(responder, fake)
		req := withCaller(httptest.NewRequest(http.MethodDelete, "/users/"+testUserID, nil))
		req.SetPathValue("id", testUserID)
		rr := httptest.NewRecorder()

		ctrl.DeleteUser(rr, req)

		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, testUserID, fake.lastID)
	})
}

func TestUserController_ListBasicUsers(t *testing.T) {
	fake := &fakeUserService{basic: []*domain.UserBasic{{ID: testUserID, Username: "maria"}}}
	responder, _ := newTestResponder()
	ctrl := NewUserController(responder, fake)
	rr := httptest.NewRecorder()

	ctrl.ListBasicUsers(rr, withCaller(httptest.NewRequest(http.MethodGet, "/users/basic", nil)))

	require.Equal(t, http.StatusOK, rr.Code)
	var users []domain.UserBasic
	decodeData(t, decodeEnvelope(t, rr), &users)
	require.Len(t, users, 1)
	assert.Equal(t, "maria", users[0].Username)
}

package handlers_test

import (
	"net/http"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/apperrors"
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	"github.com/SscSPs/orsys_voucher_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

func sampleHead() *domain.Head {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	return &domain.Head{
		HeadID:      "h-1",
		Name:        "Utilities",
		Code:        "UTL",
		Status:      domain.HeadActive,
		AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: testUserID, LastUpdatedAt: now, LastUpdatedBy: testUserID},
	}
}

func sampleUser(id string, role domain.UserRole) *domain.AppUser {
	return &domain.AppUser{
		UserID:      id,
		Email:       id + "@orsys.pk",
		DisplayName: "Test " + id,
		Role:        role,
		Active:      true,
		Permissions: map[string]bool{domain.PermVouchersView: true},
	}
}

func (suite *HandlerTestSuite) TestCreateHead() {
	suite.heads.On("CreateHead", mock.Anything,
		dto.CreateHeadRequest{Name: "Utilities", Code: "UTL", Status: "active"},
		testUserID,
	).Return(sampleHead(), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/heads", map[string]any{"name": "Utilities", "code": "UTL", "status": "active"})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.HeadResponse
	suite.decode(w, &resp)
	suite.Equal("h-1", resp.HeadID)
}

func (suite *HandlerTestSuite) TestCreateHead_InvalidStatus() {
	w := suite.do(http.MethodPost, "/api/v1/heads", map[string]any{"name": "Utilities", "status": "archived"})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestCreateHead_Duplicate() {
	suite.heads.On("CreateHead", mock.Anything, mock.Anything, testUserID).Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.do(http.MethodPost, "/api/v1/heads", map[string]any{"name": "Utilities", "status": "active"})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestListHeads() {
	suite.heads.On("ListHeads", mock.Anything, domain.HeadActive).Return([]domain.Head{*sampleHead()}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/heads?status=active", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.HeadResponse
	suite.decode(w, &resp)
	suite.Len(resp, 1)
}

func (suite *HandlerTestSuite) TestGetHead_NotFound() {
	suite.heads.On("GetHead", mock.Anything, "nope").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/heads/nope", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateHead() {
	suite.heads.On("UpdateHead", mock.Anything, "h-1",
		mock.MatchedBy(func(req dto.UpdateHeadRequest) bool {
			return req.Name == nil && req.Status != nil && *req.Status == "inactive"
		}),
		testUserID,
	).Return(sampleHead(), nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/heads/h-1", map[string]any{"status": "inactive"})

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteHead() {
	suite.heads.On("DeleteHead", mock.Anything, "h-1", testUserID).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/heads/h-1", nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestGetMe() {
	suite.users.On("GetUser", mock.Anything, testUserID).Return(sampleUser(testUserID, domain.RoleAdmin), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/users/me", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AppUserResponse
	suite.decode(w, &resp)
	suite.Equal(domain.RoleAdmin, resp.Role)
	suite.True(resp.Permissions[domain.PermVouchersView])
}

func (suite *HandlerTestSuite) TestListUsers_Forbidden() {
	suite.users.On("ListUsers", mock.Anything, testUserID).Return(nil, apperrors.ErrForbidden).Once()

	w := suite.do(http.MethodGet, "/api/v1/users", nil)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestCreateUser() {
	suite.users.On("AddUser", mock.Anything,
		mock.MatchedBy(func(req dto.CreateAppUserRequest) bool {
			return req.UserID == "u-2" && req.Email == "u-2@orsys.pk" && req.Permissions[domain.PermReportsView]
		}),
		testUserID,
	).Return(sampleUser("u-2", domain.RoleUser), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/users", map[string]any{
		"userID":      "u-2",
		"email":       "u-2@orsys.pk",
		"displayName": "Second",
		"permissions": map[string]bool{domain.PermReportsView: true},
	})

	suite.Equal(http.StatusCreated, w.Code)
}

func (suite *HandlerTestSuite) TestCreateUser_BadEmail() {
	w := suite.do(http.MethodPost, "/api/v1/users", map[string]any{
		"userID": "u-2", "email": "not-an-email", "displayName": "Second",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateUser_RejectsUnknownRole() {
	w := suite.do(http.MethodPut, "/api/v1/users/u-2", map[string]any{"role": "owner"})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestSetActive() {
	suite.users.On("SetActive", mock.Anything, "u-2", false, testUserID).Return(sampleUser("u-2", domain.RoleUser), nil).Once()
	suite.users.On("SetActive", mock.Anything, "u-2", true, testUserID).Return(sampleUser("u-2", domain.RoleUser), nil).Once()

	suite.Equal(http.StatusOK, suite.do(http.MethodPost, "/api/v1/users/u-2/deactivate", nil).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodPost, "/api/v1/users/u-2/activate", nil).Code)
}

func (suite *HandlerTestSuite) TestSetActive_Self() {
	suite.users.On("SetActive", mock.Anything, testUserID, false, testUserID).Return(nil, apperrors.ErrValidation).Once()

	w := suite.do(http.MethodPost, "/api/v1/users/"+testUserID+"/deactivate", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestSetPermission() {
	suite.users.On("SetPermission", mock.Anything, "u-2", domain.PermVouchersDelete, true, testUserID).
		Return(sampleUser("u-2", domain.RoleUser), nil).Once()
	suite.users.On("SetPermission", mock.Anything, "u-2", domain.PermVouchersDelete, false, testUserID).
		Return(sampleUser("u-2", domain.RoleUser), nil).Once()

	suite.Equal(http.StatusOK, suite.do(http.MethodPut, "/api/v1/users/u-2/permissions/vouchers.delete", nil).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodDelete, "/api/v1/users/u-2/permissions/vouchers.delete", nil).Code)
}

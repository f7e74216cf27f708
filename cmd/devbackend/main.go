// Command devbackend is a stand-in for the upstream leave-management API,
// for local development of the portal. It serves the demo accounts with
// real signed tokens and a small in-memory data set, and rejects missing
// or expired tokens with 401 so the portal's invalidation flow can be
// exercised end to end.
package main

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/bt-group/leave-portal/internal/core/domain"
	"github.com/bt-group/leave-portal/pkg/logger"
)

const tokenTTL = 8 * time.Hour

type account struct {
	identity     domain.Identity
	passwordHash []byte
	user         domain.User
}

type server struct {
	mu       sync.Mutex
	secret   []byte
	accounts map[string]*account
	requests []domain.LeaveRequest
	nextID   int
}

func main() {
	log := logger.New(envOr("LOG_LEVEL", "info"), true)

	s := &server{
		secret:   []byte(envOr("JWT_SECRET", "dev-secret")),
		accounts: make(map[string]*account),
		nextID:   100,
	}
	s.seed()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.Logger())

	api := e.Group("/api")
	api.POST("/login", s.login)

	protected := api.Group("", s.requireToken)
	protected.GET("/leave-requests", s.allRequests)
	protected.GET("/leave-requests/pending", s.pendingRequests)
	protected.GET("/leave-requests/status/:userId", s.requestsForUser)
	protected.POST("/leave-requests", s.createRequest)
	protected.PUT("/leave-requests/:id/approve", s.setStatus(domain.LeaveApproved))
	protected.PUT("/leave-requests/:id/reject", s.setStatus(domain.LeaveRejected))
	protected.PUT("/leave-requests/:id/cancel", s.setStatus(domain.LeaveCancelled))
	protected.GET("/users", s.users)
	protected.GET("/users/:id/leave-balance", s.leaveBalance)

	port := envOr("PORT", "3000")
	log.Info().Str("port", port).Msg("dev backend started")
	if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("dev backend failed")
	}
}

// seed installs the three demo accounts and a handful of requests.
func (s *server) seed() {
	demo := []struct {
		email string
		role  domain.RoleID
		id    int
		first string
		last  string
	}{
		{"admin@bt.com", domain.RoleAdministrator, 1, "Alice", "Barnes"},
		{"manager@bt.com", domain.RoleManager, 2, "Marcus", "Webb"},
		{"employee@bt.com", domain.RoleEmployee, 3, "Emma", "Clarke"},
	}
	for _, d := range demo {
		hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		s.accounts[d.email] = &account{
			identity:     domain.Identity{Email: d.email, RoleID: d.role, UserID: d.id},
			passwordHash: hash,
			user: domain.User{
				UserID:             d.id,
				FirstName:          d.first,
				Surname:            d.last,
				Email:              d.email,
				OfficeName:         "BT Centre",
				AnnualLeaveBalance: 20,
				Role:               domain.Role{RoleID: d.role, Name: d.role.Name()},
			},
		}
	}

	employee := s.accounts["employee@bt.com"].user
	s.requests = []domain.LeaveRequest{
		{
			LeaveRequestID: 1,
			StartDate:      "2026-09-14",
			EndDate:        "2026-09-18",
			Status:         domain.LeavePending,
			Reason:         "Family holiday",
			User:           employee,
			LeaveType:      domain.LeaveType{LeaveTypeID: 1, LeaveType: "Annual Leave", InitialBalance: 20},
		},
		{
			LeaveRequestID: 2,
			StartDate:      "2026-07-06",
			EndDate:        "2026-07-10",
			Status:         domain.LeaveApproved,
			User:           employee,
			LeaveType:      domain.LeaveType{LeaveTypeID: 1, LeaveType: "Annual Leave", InitialBalance: 20},
		},
	}
}

func (s *server) login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	acct, ok := s.accounts[strings.ToLower(req.Email)]
	if !ok || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	claims := jwt.MapClaims{
		"email":  acct.identity.Email,
		"roleId": int(acct.identity.RoleID),
		"userId": acct.identity.UserID,
		"exp":    time.Now().Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "token signing failed"})
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

// requireToken verifies the bearer token; unlike the portal, the backend
// owns the secret and checks the signature.
func (s *server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return s.secret, nil
		})
		if err != nil || !token.Valid {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		}
		return next(c)
	}
}

func (s *server) allRequests(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, envelope(s.requests))
}

func (s *server) pendingRequests(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := make([]domain.LeaveRequest, 0)
	for _, r := range s.requests {
		if r.Status == domain.LeavePending {
			pending = append(pending, r)
		}
	}
	return c.JSON(http.StatusOK, envelope(pending))
}

func (s *server) requestsForUser(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid user id"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	mine := make([]domain.LeaveRequest, 0)
	for _, r := range s.requests {
		if r.User.UserID == userID {
			mine = append(mine, r)
		}
	}
	return c.JSON(http.StatusOK, envelope(mine))
}

func (s *server) createRequest(c echo.Context) error {
	var req struct {
		LeaveTypeID int    `json:"leaveTypeId"`
		StartDate   string `json:"startDate"`
		EndDate     string `json:"endDate"`
		Reason      string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	created := domain.LeaveRequest{
		LeaveRequestID: s.nextID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Status:         domain.LeavePending,
		Reason:         req.Reason,
		User:           s.accounts["employee@bt.com"].user,
		LeaveType:      domain.LeaveType{LeaveTypeID: req.LeaveTypeID, LeaveType: "Annual Leave", InitialBalance: 20},
	}
	s.requests = append(s.requests, created)
	return c.JSON(http.StatusCreated, envelope(created))
}

func (s *server) setStatus(status domain.LeaveStatus) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request id"})
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := range s.requests {
			if s.requests[i].LeaveRequestID == id {
				s.requests[i].Status = status
				return c.JSON(http.StatusOK, envelope(s.requests[i]))
			}
		}
		return c.JSON(http.StatusNotFound, map[string]string{"error": "request not found"})
	}
}

func (s *server) users(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]domain.User, 0, len(s.accounts))
	for _, acct := range s.accounts {
		list = append(list, acct.user)
	}
	return c.JSON(http.StatusOK, envelope(list))
}

func (s *server) leaveBalance(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid user id"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, approved := 0, 0
	for _, r := range s.requests {
		if r.User.UserID != userID {
			continue
		}
		switch r.Status {
		case domain.LeavePending:
			pending += daysBetween(r.StartDate, r.EndDate)
		case domain.LeaveApproved:
			approved += daysBetween(r.StartDate, r.EndDate)
		}
	}
	return c.JSON(http.StatusOK, envelope(domain.LeaveBalance{
		UserID:       userID,
		Remaining:    20 - approved,
		PendingDays:  pending,
		ApprovedDays: approved,
	}))
}

func daysBetween(start, end string) int {
	from, err1 := time.Parse("2006-01-02", start)
	to, err2 := time.Parse("2006-01-02", end)
	if err1 != nil || err2 != nil || to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

func envelope(data any) map[string]any {
	return map[string]any{"data": data}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

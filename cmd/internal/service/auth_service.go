package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/credentials"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/domain/events"
	cognitoclient "pontodigital/cmd/internal/infrastructure/aws/cognito"
	"pontodigital/cmd/internal/livesync"
	"pontodigital/cmd/internal/utils"
	"pontodigital/cmd/internal/utils/apierror"
	"pontodigital/cmd/internal/views"
)

const (
	accessCodeLength   = 6
	accessCodeAttempts = 5
)

type CompanyRepository interface {
	FindByID(code string) (*entity.Company, error)
	FindByAdminEmail(email string) (*entity.Company, error)
	ExistsByID(code string) (bool, error)
	Save(company *entity.Company) error
}

type EmployeeRepository interface {
	FindAllByCompany(code string) ([]*entity.Employee, error)
	FindByID(code string, id int64) (*entity.Employee, error)
	FindByBadge(code, badge string) (*entity.Employee, error)
	ExistsByBadge(code, badge string) (bool, error)
	Save(employee *entity.Employee) error
	Delete(employee *entity.Employee) error
}

type SessionRepository interface {
	FindByID(id string) (*entity.Session, error)
	Save(sess *entity.Session) error
	Delete(id string) (bool, error)
	FindExpired(now int64) ([]*entity.Session, error)
	DeleteByCompanyBadge(code, badge string) ([]*entity.Session, error)
}

// SessionTracker keeps a company's live store open while it has sessions.
type SessionTracker interface {
	Acquire(ctx context.Context, companyCode string) (*livesync.Store, error)
	Release(companyCode string)
}

// ConnectionTerminator closes the websocket connections opened by a session.
type ConnectionTerminator interface {
	TerminateSessionConnections(ctx context.Context, sessionID string, ck *events.ConnectionKill)
}

type AuthService struct {
	CompanyRepo  CompanyRepository
	EmployeeRepo EmployeeRepository
	SessionRepo  SessionRepository
	Hasher       credentials.Hasher
	Signer       *utils.TokenSigner
	// Directory is optional. When nil, admin passwords are checked against
	// the hash stored on the company.
	Directory  cognitoclient.AdminDirectory
	Tracker    SessionTracker
	Terminator ConnectionTerminator
	Validate   *validator.Validate
	Now        func() time.Time
}

func NewAuthService(
	companyRepo CompanyRepository,
	employeeRepo EmployeeRepository,
	sessionRepo SessionRepository,
	hasher credentials.Hasher,
	signer *utils.TokenSigner,
	directory cognitoclient.AdminDirectory,
	tracker SessionTracker,
	terminator ConnectionTerminator,
	validate *validator.Validate,
) *AuthService {
	return &AuthService{
		CompanyRepo:  companyRepo,
		EmployeeRepo: employeeRepo,
		SessionRepo:  sessionRepo,
		Hasher:       hasher,
		Signer:       signer,
		Directory:    directory,
		Tracker:      tracker,
		Terminator:   terminator,
		Validate:     validate,
		Now:          time.Now,
	}
}

func (a *AuthService) LoginEmployee(ctx context.Context, req *contract.EmployeeLoginRequest) (*contract.SessionResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.CompanyCode = strings.ToUpper(req.CompanyCode)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	company, apierr := a.findCompany(req.CompanyCode)
	if apierr != nil {
		return nil, apierr
	}

	employee, err := a.EmployeeRepo.FindByBadge(company.ID, req.Badge)
	if err != nil {
		log.Errorf("failed to find employee %s of company %s: %v", req.Badge, company.ID, err)
		return nil, apierror.InternalServerError
	}

	// Unknown badges and wrong passwords look the same to the client, and
	// both pay for a hash comparison.
	var hash string
	if employee != nil {
		hash = employee.PasswordHash
	}
	if !a.Hasher.Verify(hash, req.Password) || employee == nil {
		return nil, apierror.CredentialsMismatch
	}

	if !employee.Active {
		return nil, apierror.InactiveEmployeeError
	}

	return a.openSession(ctx, &entity.Session{
		Name:        employee.Name,
		Email:       employee.Email,
		Role:        entity.RoleEmployee,
		CompanyCode: company.ID,
		Badge:       employee.Badge,
		PhotoURL:    employee.PhotoURL,
	})
}

func (a *AuthService) LoginAdmin(ctx context.Context, req *contract.AdminLoginRequest) (*contract.SessionResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.Email = strings.ToLower(req.Email)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	company, err := a.CompanyRepo.FindByAdminEmail(req.Email)
	if err != nil {
		log.Errorf("failed to find company by admin email %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}

	if company == nil {
		return nil, apierror.CredentialsMismatch
	}

	if apierr := a.verifyAdmin(ctx, company, req.Password); apierr != nil {
		return nil, apierr
	}

	return a.openSession(ctx, &entity.Session{
		Name:        company.AdminName,
		Email:       company.AdminEmail,
		Role:        entity.RoleAdmin,
		CompanyCode: company.ID,
		PhotoURL:    company.LogoURL,
	})
}

func (a *AuthService) LoginTotem(ctx context.Context, req *contract.TotemLoginRequest) (*contract.SessionResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.CompanyCode = strings.ToUpper(req.CompanyCode)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	company, apierr := a.findCompany(req.CompanyCode)
	if apierr != nil {
		return nil, apierr
	}

	if !credentials.VerifyTotemCode(req.Code, company.TotemSecret, a.Now()) {
		return nil, apierror.InvalidTotemCodeError
	}

	return a.openSession(ctx, &entity.Session{
		Name:        "Totem " + company.Name,
		Role:        entity.RoleTotem,
		CompanyCode: company.ID,
		PhotoURL:    company.LogoURL,
	})
}

// SignupAdmin creates a new company with its administrator and logs them in.
// The company access code is generated here.
func (a *AuthService) SignupAdmin(ctx context.Context, req *contract.AdminSignupRequest) (*contract.SessionResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.Email = strings.ToLower(req.Email)
	req.CNPJ = utils.NormalizeCNPJ(req.CNPJ)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	taken, err := a.CompanyRepo.FindByAdminEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check admin email %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}

	if taken != nil {
		return nil, apierror.AdminEmailTakenError
	}

	code, err := a.newAccessCode()
	if err != nil {
		log.Errorf("failed to generate company access code: %v", err)
		return nil, apierror.InternalServerError
	}

	secret, _, err := credentials.GenerateTotemSecret(code)
	if err != nil {
		log.Errorf("failed to generate totem secret for %s: %v", code, err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	company := &entity.Company{
		ID:               code,
		Name:             req.CompanyName,
		CNPJ:             req.CNPJ,
		AdminName:        req.AdminName,
		AdminEmail:       req.Email,
		TotemSecret:      secret,
		Holidays:         entity.HolidaySet{},
		WeeklyHours:      44,
		ToleranceMinutes: 10,
		OvertimePercent:  50,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	revert := func() {}
	if a.Directory != nil {
		if _, err := a.Directory.SignUp(ctx, req.Email, req.Password); err != nil {
			return nil, cognitoclient.MapError(err)
		}
		revert = func() {
			_ = a.Directory.AdminDeleteUser(context.Background(), req.Email)
		}
	} else {
		hash, err := a.Hasher.Hash(req.Password)
		if err != nil {
			log.Errorf("failed to hash admin password: %v", err)
			return nil, apierror.InternalServerError
		}
		company.AdminPasswordHash = hash
	}

	if err := a.CompanyRepo.Save(company); err != nil {
		revert()
		log.Errorf("failed to create company %s: %v", code, err)
		return nil, apierror.InternalServerError
	}

	return a.openSession(ctx, &entity.Session{
		Name:        company.AdminName,
		Email:       company.AdminEmail,
		Role:        entity.RoleAdmin,
		CompanyCode: company.ID,
	})
}

// Logout destroys the session: its row, its websocket connections and its
// hold on the company's live store.
// A session already gone is not closed twice.
func (a *AuthService) Logout(ctx context.Context, sess *entity.Session) apierror.ErrorResponse {
	removed, err := a.SessionRepo.Delete(sess.ID)
	if err != nil {
		log.Errorf("failed to delete session %s: %v", sess.ID, err)
		return apierror.InternalServerError
	}

	if removed {
		a.closeSession(ctx, sess, contract.KillLoggedOut)
	}
	return nil
}

// RevokeEmployeeSessions logs out every session of an employee that was
// removed or deactivated.
func (a *AuthService) RevokeEmployeeSessions(ctx context.Context, companyCode, badge string) {
	sessions, err := a.SessionRepo.DeleteByCompanyBadge(companyCode, badge)
	if err != nil {
		log.Errorf("failed to revoke sessions of %s/%s: %v", companyCode, badge, err)
	}

	for _, sess := range sessions {
		a.closeSession(ctx, sess, contract.KillRemoved)
	}
}

// ResolveSession turns a bearer token into its live session row.
func (a *AuthService) ResolveSession(token string) (*entity.Session, apierror.ErrorResponse) {
	data, err := a.Signer.ValidateToken(token)
	if err != nil {
		return nil, apierror.InvalidAuthTokenError
	}

	sess, err := a.SessionRepo.FindByID(data.SessionID)
	if err != nil {
		log.Errorf("failed to find session %s: %v", data.SessionID, err)
		return nil, apierror.InternalServerError
	}

	// Logged out, revoked or swept by the session cleaner.
	if sess == nil {
		return nil, apierror.InvalidAuthTokenError
	}

	if sess.ExpiresAt < a.Now().UnixMilli() {
		a.expire(sess)
		return nil, apierror.InvalidAuthTokenError
	}
	return sess, nil
}

// ExpireSessions drops every session past its deadline and returns how many
// were removed. Their sockets are swept by the connection cleaner.
func (a *AuthService) ExpireSessions() (int, error) {
	sessions, err := a.SessionRepo.FindExpired(a.Now().UnixMilli())
	if err != nil {
		return 0, err
	}

	for _, sess := range sessions {
		a.expire(sess)
	}
	return len(sessions), nil
}

func (a *AuthService) expire(sess *entity.Session) {
	removed, err := a.SessionRepo.Delete(sess.ID)
	if err != nil {
		log.Errorf("failed to delete expired session %s: %v", sess.ID, err)
		return
	}
	if removed && a.Tracker != nil {
		a.Tracker.Release(sess.CompanyCode)
	}
}

func (a *AuthService) Me(sess *entity.Session) *contract.SessionResponse {
	return &contract.SessionResponse{
		ExpiresAt: utils.FormatEpoch(sess.ExpiresAt),
		User:      toUserSession(sess),
	}
}

// ChangeView moves the session to another screen, following the role's
// transition table.
func (a *AuthService) ChangeView(sess *entity.Session, req *contract.ChangeViewRequest) (*contract.UserSession, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	target, err := views.Parse(req.View)
	if err != nil {
		return nil, apierror.UnknownViewError
	}

	next, err := views.Navigate(sess.Role, views.View(sess.ActiveView), target)
	if err != nil {
		if errors.Is(err, views.ErrUnknownView) {
			return nil, apierror.UnknownViewError
		}
		return nil, apierror.ForbiddenViewError
	}

	if string(next) != sess.ActiveView {
		sess.ActiveView = string(next)
		if err := a.SessionRepo.Save(sess); err != nil {
			log.Errorf("failed to save view of session %s: %v", sess.ID, err)
			return nil, apierror.InternalServerError
		}
	}
	return toUserSession(sess), nil
}

func (a *AuthService) openSession(ctx context.Context, sess *entity.Session) (*contract.SessionResponse, apierror.ErrorResponse) {
	now := a.Now()
	exp := now.Add(a.Signer.TTL())

	sess.ID = uuid.NewString()
	sess.ActiveView = string(views.Home(sess.Role))
	sess.ExpiresAt = exp.UnixMilli()
	sess.CreatedAt = now.UnixMilli()

	token, err := a.Signer.Sign(sess.ID, sess.CompanyCode, string(sess.Role), exp)
	if err != nil {
		log.Errorf("failed to sign session token: %v", err)
		return nil, apierror.InternalServerError
	}

	if err := a.SessionRepo.Save(sess); err != nil {
		log.Errorf("failed to save session for company %s: %v", sess.CompanyCode, err)
		return nil, apierror.InternalServerError
	}

	// Not fatal: handlers open the store lazily when they first need it.
	if a.Tracker != nil {
		if _, err := a.Tracker.Acquire(ctx, sess.CompanyCode); err != nil {
			log.Warnf("failed to open live store for company %s: %v", sess.CompanyCode, err)
		}
	}

	return &contract.SessionResponse{
		Token:     token,
		ExpiresAt: utils.FormatEpoch(sess.ExpiresAt),
		User:      toUserSession(sess),
	}, nil
}

func (a *AuthService) closeSession(ctx context.Context, sess *entity.Session, code contract.KillCode) {
	if a.Terminator != nil {
		a.Terminator.TerminateSessionConnections(ctx, sess.ID, &events.ConnectionKill{Code: code})
	}
	if a.Tracker != nil {
		a.Tracker.Release(sess.CompanyCode)
	}
}

func (a *AuthService) verifyAdmin(ctx context.Context, company *entity.Company, password string) apierror.ErrorResponse {
	if a.Directory != nil {
		if err := a.Directory.SignIn(ctx, company.AdminEmail, password); err != nil {
			return cognitoclient.MapError(err)
		}
		return nil
	}

	if !a.Hasher.Verify(company.AdminPasswordHash, password) {
		return apierror.CredentialsMismatch
	}
	return nil
}

func (a *AuthService) findCompany(code string) (*entity.Company, apierror.ErrorResponse) {
	company, err := a.CompanyRepo.FindByID(code)
	if err != nil {
		log.Errorf("failed to find company %s: %v", code, err)
		return nil, apierror.InternalServerError
	}

	if company == nil {
		return nil, apierror.CompanyNotFound
	}
	return company, nil
}

func (a *AuthService) newAccessCode() (string, error) {
	for range accessCodeAttempts {
		raw := strings.ReplaceAll(uuid.NewString(), "-", "")
		code := strings.ToUpper(raw[:accessCodeLength])

		exists, err := a.CompanyRepo.ExistsByID(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("could not find a free access code")
}

func toUserSession(sess *entity.Session) *contract.UserSession {
	reachable := views.Reachable(sess.Role, views.View(sess.ActiveView))
	names := make([]string, len(reachable))
	for i, v := range reachable {
		names[i] = string(v)
	}

	return &contract.UserSession{
		Name:        sess.Name,
		Email:       sess.Email,
		Role:        string(sess.Role),
		CompanyCode: sess.CompanyCode,
		Badge:       sess.Badge,
		PhotoURL:    sess.PhotoURL,
		ActiveView:  sess.ActiveView,
		Reachable:   names,
	}
}

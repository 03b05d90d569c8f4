package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/credentials"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/domain/policy"
	"pontodigital/cmd/internal/infrastructure/aws/storage"
	"pontodigital/cmd/internal/livesync"
	"pontodigital/cmd/internal/timeline"
	"pontodigital/cmd/internal/utils"
	"pontodigital/cmd/internal/utils/apierror"
)

// CNPJResolver fills legal fields from the federal registry.
type CNPJResolver interface {
	Resolve(ctx context.Context, cnpj string) (*entity.CNPJLookup, bool, apierror.ErrorResponse)
}

type CompanyService struct {
	CompanyRepo CompanyRepository
	Resolver    CNPJResolver
	S3          storage.S3Client
	Stores      StoreProvider
	Policy      *policy.AccessPolicy
	Publisher   Publisher
	Validate    *validator.Validate
	Location    *time.Location
	Now         func() time.Time

	// Holidays and profile edits are read-modify-write on the company row,
	// serialized per company.
	locks sync.Map
}

func NewCompanyService(
	companyRepo CompanyRepository,
	resolver CNPJResolver,
	s3 storage.S3Client,
	stores StoreProvider,
	accessPolicy *policy.AccessPolicy,
	publisher Publisher,
	validate *validator.Validate,
	loc *time.Location,
) *CompanyService {
	return &CompanyService{
		CompanyRepo: companyRepo,
		Resolver:    resolver,
		S3:          s3,
		Stores:      stores,
		Policy:      accessPolicy,
		Publisher:   publisher,
		Validate:    validate,
		Location:    loc,
		Now:         time.Now,
	}
}

func (s *CompanyService) GetCompany(actor *entity.Session) (*contract.CompanyResponse, apierror.ErrorResponse) {
	company, apierr := s.fetch(actor.CompanyCode)
	if apierr != nil {
		return nil, apierr
	}
	return toCompanyResponse(company, actor), nil
}

func (s *CompanyService) UpdateCompany(ctx context.Context, actor *entity.Session, req *contract.UpdateCompanyRequest) (*contract.CompanyResponse, apierror.ErrorResponse) {
	if perr := s.Policy.Require(actor, entity.PermissionManageCompany); perr != nil {
		return nil, perr
	}

	utils.Sanitize(req)
	if req.CNPJ != nil {
		normalized := utils.NormalizeCNPJ(*req.CNPJ)
		req.CNPJ = &normalized
	}
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	// The registry lookup and the logo upload happen before the row is locked.
	current, apierr := s.fetch(actor.CompanyCode)
	if apierr != nil {
		return nil, apierr
	}

	var lookup *entity.CNPJLookup
	if req.CNPJ != nil && *req.CNPJ != current.CNPJ {
		lookup = s.resolve(ctx, current.ID, *req.CNPJ)
	}

	var newLogo string
	if req.Logo != nil && *req.Logo != "" {
		url, apierr := uploadPhoto(ctx, s.S3, current.ID, storage.PathLogos, *req.Logo)
		if apierr != nil {
			return nil, apierr
		}
		newLogo = url
	}

	unlock := s.lock(actor.CompanyCode)
	defer unlock()

	company, apierr := s.fetch(actor.CompanyCode)
	if apierr != nil {
		deletePhoto(ctx, s.S3, newLogo)
		return nil, apierr
	}

	setIf(req.Name, &company.Name)
	setIf(req.AddressStreet, &company.AddressStreet)
	setIf(req.AddressNumber, &company.AddressNumber)
	setIf(req.AddressNeighborhood, &company.AddressNeighborhood)
	setIf(req.AddressCity, &company.AddressCity)
	setIf(req.AddressZipCode, &company.AddressZipCode)
	if req.AddressState != nil {
		company.AddressState = strings.ToUpper(*req.AddressState)
	}

	setIf(req.GeofenceEnabled, &company.GeofenceEnabled)
	setIf(req.GeofenceLat, &company.GeofenceLat)
	setIf(req.GeofenceLng, &company.GeofenceLng)
	setIf(req.GeofenceRadius, &company.GeofenceRadius)
	setIf(req.WeeklyHours, &company.WeeklyHours)
	setIf(req.ToleranceMinutes, &company.ToleranceMinutes)
	setIf(req.OvertimePercent, &company.OvertimePercent)

	if req.CNPJ != nil && *req.CNPJ != company.CNPJ {
		company.CNPJ = *req.CNPJ
		applyLookup(company, lookup)
	}

	oldLogo := company.LogoURL
	if newLogo != "" {
		company.LogoURL = newLogo
	}

	company.UpdatedAt = utils.NowUTC()
	if err := s.CompanyRepo.Save(company); err != nil {
		deletePhoto(ctx, s.S3, newLogo)
		log.Errorf("failed to update company %s: %v", company.ID, err)
		return nil, apierror.InternalServerError
	}

	if company.LogoURL != oldLogo {
		deletePhoto(ctx, s.S3, oldLogo)
	}

	publish(s.Publisher, livesync.CollectionCompanies, company.ID)
	return toCompanyResponse(company, actor), nil
}

func (s *CompanyService) GetHolidays(actor *entity.Session) ([]*contract.HolidayResponse, apierror.ErrorResponse) {
	company, apierr := s.fetch(actor.CompanyCode)
	if apierr != nil {
		return nil, apierr
	}
	return toHolidayResponses(company.Holidays), nil
}

// AddHoliday inserts a holiday keyed by its canonical date. Two spellings of
// the same day ("2026-02-14", "14/02/2026") collide.
func (s *CompanyService) AddHoliday(actor *entity.Session, req *contract.HolidayRequest) (*contract.HolidayResponse, apierror.ErrorResponse) {
	if perr := s.Policy.Require(actor, entity.PermissionManageCompany); perr != nil {
		return nil, perr
	}

	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	date, err := timeline.NormalizeDate(req.Date)
	if err != nil {
		return nil, apierror.InvalidHolidayDateError
	}

	unlock := s.lock(actor.CompanyCode)
	defer unlock()

	company, apierr := s.fetch(actor.CompanyCode)
	if apierr != nil {
		return nil, apierr
	}

	if _, exists := company.Holidays.FindByDate(date); exists {
		return nil, apierror.HolidayExistsError
	}

	holiday := entity.Holiday{
		ID:          uuid.NewString(),
		Date:        date,
		Description: req.Description,
		Type:        entity.HolidayType(req.Type),
	}

	company.Holidays = append(company.Holidays, holiday).Sorted()
	company.UpdatedAt = utils.NowUTC()
	if err := s.CompanyRepo.Save(company); err != nil {
		log.Errorf("failed to add holiday %s to company %s: %v", date, company.ID, err)
		return nil, apierror.InternalServerError
	}

	publish(s.Publisher, livesync.CollectionCompanies, company.ID)
	return toHolidayResponse(holiday), nil
}

// RemoveHoliday accepts either the holiday id or any accepted date spelling.
func (s *CompanyService) RemoveHoliday(actor *entity.Session, key string) apierror.ErrorResponse {
	if perr := s.Policy.Require(actor, entity.PermissionManageCompany); perr != nil {
		return perr
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return apierror.NewMissingParamError("holiday")
	}

	date, dateErr := timeline.NormalizeDate(key)

	unlock := s.lock(actor.CompanyCode)
	defer unlock()

	company, apierr := s.fetch(actor.CompanyCode)
	if apierr != nil {
		return apierr
	}

	kept := make(entity.HolidaySet, 0, len(company.Holidays))
	for _, h := range company.Holidays {
		if h.ID == key || (dateErr == nil && h.Date == date) {
			continue
		}
		kept = append(kept, h)
	}

	if len(kept) == len(company.Holidays) {
		return apierror.NotFoundError
	}

	company.Holidays = kept
	company.UpdatedAt = utils.NowUTC()
	if err := s.CompanyRepo.Save(company); err != nil {
		log.Errorf("failed to remove holiday %s from company %s: %v", key, company.ID, err)
		return apierror.InternalServerError
	}

	publish(s.Publisher, livesync.CollectionCompanies, company.ID)
	return nil
}

// RotateTotemSecret replaces the kiosk secret. Totems logged in with the old
// secret keep their sessions until they expire.
func (s *CompanyService) RotateTotemSecret(actor *entity.Session) (*contract.TotemSecretResponse, apierror.ErrorResponse) {
	if perr := s.Policy.Require(actor, entity.PermissionManageCompany); perr != nil {
		return nil, perr
	}

	unlock := s.lock(actor.CompanyCode)
	defer unlock()

	company, apierr := s.fetch(actor.CompanyCode)
	if apierr != nil {
		return nil, apierr
	}

	secret, url, err := credentials.GenerateTotemSecret(company.ID)
	if err != nil {
		log.Errorf("failed to generate totem secret for %s: %v", company.ID, err)
		return nil, apierror.InternalServerError
	}

	company.TotemSecret = secret
	company.UpdatedAt = utils.NowUTC()
	if err := s.CompanyRepo.Save(company); err != nil {
		log.Errorf("failed to save totem secret of %s: %v", company.ID, err)
		return nil, apierror.InternalServerError
	}
	return &contract.TotemSecretResponse{Secret: secret, OTPAuthURL: url}, nil
}

func (s *CompanyService) GetTotemCode(actor *entity.Session) (*contract.TotemCodeResponse, apierror.ErrorResponse) {
	if perr := s.Policy.Require(actor, entity.PermissionManageCompany); perr != nil {
		return nil, perr
	}

	company, apierr := s.fetch(actor.CompanyCode)
	if apierr != nil {
		return nil, apierr
	}

	code, err := credentials.TotemCode(company.TotemSecret, s.Now())
	if err != nil {
		log.Errorf("failed to compute totem code of %s: %v", company.ID, err)
		return nil, apierror.InternalServerError
	}
	return &contract.TotemCodeResponse{Code: code}, nil
}

// Dashboard summarizes today from the company's live store.
func (s *CompanyService) Dashboard(ctx context.Context, actor *entity.Session) (*contract.DashboardResponse, apierror.ErrorResponse) {
	if perr := s.Policy.Require(actor, entity.PermissionAdministrator); perr != nil {
		return nil, perr
	}

	store, err := s.Stores.Get(ctx, actor.CompanyCode)
	if err != nil {
		log.Errorf("failed to open live store of %s: %v", actor.CompanyCode, err)
		return nil, apierror.InternalServerError
	}

	now := s.Now().In(s.Location)
	resp := &contract.DashboardResponse{PresentNow: []string{}}

	if company := store.Company(); company != nil {
		resp.CompanyName = company.Name
		if h, ok := company.Holidays.FindByDate(now.Format(timeline.CanonicalLayout)); ok {
			resp.TodayIsHoliday = true
			resp.HolidayName = h.Description
		}
	}

	for _, emp := range store.Employees() {
		if emp.Active {
			resp.ActiveEmployees++
		}
	}

	// Records come newest first, so the first one seen per badge is the latest.
	today := timeline.OnDay(store.Records(), now, s.Location)
	latest := make(map[string]*entity.PointRecord)
	for _, r := range today {
		if r.Status == entity.RecordPending {
			resp.PendingRecords++
		}
		if _, seen := latest[r.Badge]; !seen {
			latest[r.Badge] = r
		}
	}
	resp.PunchesToday = len(today)

	for _, r := range latest {
		if r.Type == entity.PunchEntrada || r.Type == entity.PunchRetorno {
			resp.PresentNow = append(resp.PresentNow, r.UserName)
		}
	}
	sort.Strings(resp.PresentNow)
	return resp, nil
}

// resolve returns nil when the CNPJ could not be looked up. The profile is
// still saved, without the registry fields.
func (s *CompanyService) resolve(ctx context.Context, companyCode, cnpj string) *entity.CNPJLookup {
	if s.Resolver == nil || cnpj == "" {
		return nil
	}

	lookup, _, apierr := s.Resolver.Resolve(ctx, cnpj)
	if apierr != nil {
		log.Warnf("could not auto-fill company %s from CNPJ %s", companyCode, cnpj)
		return nil
	}
	return lookup
}

func applyLookup(company *entity.Company, lookup *entity.CNPJLookup) {
	if lookup == nil {
		return
	}

	company.LegalName = lookup.LegalName
	company.RegStatus = lookup.RegStatus
	if company.AddressStreet == "" {
		company.AddressStreet = lookup.AddressStreet
		company.AddressNumber = lookup.AddressNumber
		company.AddressNeighborhood = lookup.AddressNeighborhood
		company.AddressCity = lookup.AddressCity
		company.AddressState = lookup.AddressState
		company.AddressZipCode = lookup.AddressZipCode
	}
}

func (s *CompanyService) lock(companyCode string) func() {
	v, _ := s.locks.LoadOrStore(companyCode, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *CompanyService) fetch(code string) (*entity.Company, apierror.ErrorResponse) {
	company, err := s.CompanyRepo.FindByID(code)
	if err != nil {
		log.Errorf("failed to find company %s: %v", code, err)
		return nil, apierror.InternalServerError
	}

	if company == nil {
		return nil, apierror.CompanyNotFound
	}
	return company, nil
}

func setIf[T any](newVal *T, target *T) {
	if newVal != nil {
		*target = *newVal
	}
}

func toCompanyResponse(c *entity.Company, actor *entity.Session) *contract.CompanyResponse {
	resp := &contract.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		CNPJ:      c.CNPJ,
		LegalName: c.LegalName,
		RegStatus: string(c.RegStatus),
		Address: &contract.LookupAddress{
			Street:       c.AddressStreet,
			Number:       c.AddressNumber,
			Neighborhood: c.AddressNeighborhood,
			City:         c.AddressCity,
			State:        c.AddressState,
			ZipCode:      c.AddressZipCode,
		},
		LogoURL:   c.LogoURL,
		AdminName: c.AdminName,
		Holidays:  toHolidayResponses(c.Holidays),
		Geofence: &contract.GeofenceResponse{
			Enabled: c.GeofenceEnabled,
			Lat:     c.GeofenceLat,
			Lng:     c.GeofenceLng,
			Radius:  c.GeofenceRadius,
		},
		WeeklyHours:      c.WeeklyHours,
		ToleranceMinutes: c.ToleranceMinutes,
		OvertimePercent:  c.OvertimePercent,
		UpdatedAt:        formatMillis(c.UpdatedAt),
	}

	if actor.Role.Permissions().Has(entity.PermissionAdministrator) {
		resp.AdminEmail = c.AdminEmail
	}
	return resp
}

func toHolidayResponses(set entity.HolidaySet) []*contract.HolidayResponse {
	sorted := set.Sorted()
	resp := make([]*contract.HolidayResponse, len(sorted))
	for i, h := range sorted {
		resp[i] = toHolidayResponse(h)
	}
	return resp
}

func toHolidayResponse(h entity.Holiday) *contract.HolidayResponse {
	return &contract.HolidayResponse{
		ID:          h.ID,
		Date:        h.Date,
		Description: h.Description,
		Type:        string(h.Type),
	}
}

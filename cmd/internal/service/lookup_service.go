package service

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/gommon/log"
	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/domain/policy"
	"pontodigital/cmd/internal/infrastructure/minhareceita"
	"pontodigital/cmd/internal/utils"
	"pontodigital/cmd/internal/utils/apierror"
)

const lookupTimeout = 15 * time.Second

type LookupRepository interface {
	FindByCNPJ(cnpj string) (*entity.CNPJLookup, error)
	Save(lookup *entity.CNPJLookup) error
}

// CNPJClient queries the federal company registry.
type CNPJClient interface {
	GetByCNPJ(ctx context.Context, cnpj string) (*entity.CNPJLookup, error)
}

type LookupService struct {
	Client     CNPJClient
	LookupRepo LookupRepository
	Policy     *policy.AccessPolicy
}

func NewLookupService(client CNPJClient, lookupRepo LookupRepository, accessPolicy *policy.AccessPolicy) *LookupService {
	return &LookupService{
		Client:     client,
		LookupRepo: lookupRepo,
		Policy:     accessPolicy,
	}
}

func (l *LookupService) GetCompanyByCNPJ(ctx context.Context, actor *entity.Session, cnpj string) (*contract.LookupResponse, apierror.ErrorResponse) {
	if perr := l.Policy.Require(actor, entity.PermissionPerformLookup); perr != nil {
		return nil, perr
	}

	cnpj = utils.NormalizeCNPJ(cnpj)
	if !utils.IsCNPJValid(cnpj) {
		return nil, apierror.InvalidCNPJError
	}

	lookup, fromCache, apierr := l.Resolve(ctx, cnpj)
	if apierr != nil {
		return nil, apierr
	}
	return toLookupResponse(lookup, fromCache), nil
}

// Resolve tries to turn the CNPJ into registry data.
// It returns the lookup, a boolean (true = cached, false = API fetch) and a possible error response.
func (l *LookupService) Resolve(ctx context.Context, cnpj string) (*entity.CNPJLookup, bool, apierror.ErrorResponse) {
	cached, err := l.LookupRepo.FindByCNPJ(cnpj)
	if err != nil {
		log.Errorf("failed to find cnpj lookup %s: %v", cnpj, err)
		return nil, false, apierror.InternalServerError
	}

	// If we have some kind of cache
	if cached != nil {
		if cached.Found {
			return cached, true, nil
		}
		return nil, false, apierror.NotFoundError
	}

	// Cache miss
	fetched, apierr := l.fetchFromAPI(ctx, cnpj)
	if apierr != nil {
		return nil, false, apierr
	}

	// Only the cache failed, the data we need is here.
	if err := l.LookupRepo.Save(fetched); err != nil {
		log.Errorf("failed to save lookup cache for CNPJ %s: %v", cnpj, err)
	}
	return fetched, false, nil
}

func (l *LookupService) fetchFromAPI(ctx context.Context, cnpj string) (*entity.CNPJLookup, apierror.ErrorResponse) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	lookup, err := l.Client.GetByCNPJ(ctx, cnpj)
	if err != nil {
		if errors.Is(err, minhareceita.ErrNotFound) {
			l.cacheNegativeResult(cnpj)
			return nil, apierror.NotFoundError
		}
		if errors.Is(err, minhareceita.ErrRateLimited) {
			log.Warnf("lookup of CNPJ %s was rate limited", cnpj)
			return nil, apierror.LookupBusyError
		}
		log.Errorf("failed to fetch company by cnpj %s: %v", cnpj, err)
		return nil, apierror.InternalServerError
	}

	lookup.Found = true
	lookup.CachedAt = utils.NowUTC()
	return lookup, nil
}

func (l *LookupService) cacheNegativeResult(cnpj string) {
	empty := &entity.CNPJLookup{
		CNPJ:     cnpj,
		Found:    false,
		CachedAt: utils.NowUTC(),
	}
	if err := l.LookupRepo.Save(empty); err != nil {
		log.Warnf("failed to cache missing CNPJ %s: %v", cnpj, err)
	}
}

func toLookupResponse(l *entity.CNPJLookup, cached bool) *contract.LookupResponse {
	partners := make([]*contract.PartnerResponse, len(l.Partners))
	for i, p := range l.Partners {
		partners[i] = &contract.PartnerResponse{Name: p.Name, Role: p.Role}
	}

	return &contract.LookupResponse{
		CNPJ:      l.CNPJ,
		LegalName: l.LegalName,
		TradeName: l.TradeName,
		RegStatus: string(l.RegStatus),
		Address: &contract.LookupAddress{
			Street:       l.AddressStreet,
			Number:       l.AddressNumber,
			Neighborhood: l.AddressNeighborhood,
			City:         l.AddressCity,
			State:        l.AddressState,
			ZipCode:      l.AddressZipCode,
		},
		Partners: partners,
		Cached:   cached,
	}
}

package service

import (
	"context"
	"fmt"

	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/livesync"
)

// SnapshotLoader reads whole collections of one company for the live hub.
// Every query is filtered by company code at the repository.
type SnapshotLoader struct {
	CompanyRepo  CompanyRepository
	EmployeeRepo EmployeeRepository
	RecordRepo   RecordRepository
	RequestRepo  RequestRepository
}

func NewSnapshotLoader(
	companyRepo CompanyRepository,
	employeeRepo EmployeeRepository,
	recordRepo RecordRepository,
	requestRepo RequestRepository,
) *SnapshotLoader {
	return &SnapshotLoader{
		CompanyRepo:  companyRepo,
		EmployeeRepo: employeeRepo,
		RecordRepo:   recordRepo,
		RequestRepo:  requestRepo,
	}
}

func (l *SnapshotLoader) LoadCollection(ctx context.Context, col livesync.Collection, companyCode string) ([]livesync.Document, error) {
	switch col {
	case livesync.CollectionCompanies:
		company, err := l.CompanyRepo.FindByID(companyCode)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return []livesync.Document{}, nil
		}
		return livesync.EncodeDocuments([]*entity.Company{company})

	case livesync.CollectionEmployees:
		employees, err := l.EmployeeRepo.FindAllByCompany(companyCode)
		if err != nil {
			return nil, err
		}
		return livesync.EncodeDocuments(employees)

	case livesync.CollectionRecords:
		records, err := l.RecordRepo.FindAllByCompany(companyCode)
		if err != nil {
			return nil, err
		}
		return livesync.EncodeDocuments(records)

	case livesync.CollectionRequests:
		requests, err := l.RequestRepo.FindAllByCompany(companyCode)
		if err != nil {
			return nil, err
		}
		return livesync.EncodeDocuments(requests)
	}
	return nil, fmt.Errorf("unknown collection %q", col)
}

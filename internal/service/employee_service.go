package service

import (
	"context"
	"strings"

	"stockctl/internal/apierror"
	"stockctl/internal/dto"
	"stockctl/internal/model"
	"stockctl/internal/repository"

	"github.com/google/uuid"
)

type EmployeeService interface {
	CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (*dto.EmployeeResponse, error)
	ListEmployees(ctx context.Context) ([]dto.EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, id uuid.UUID, req dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error)
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
}

type employeeService struct {
	repo repository.EmployeeRepository
}

func NewEmployeeService(repo repository.EmployeeRepository) EmployeeService {
	return &employeeService{repo: repo}
}

func (s *employeeService) CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	e := model.Employee{
		Name:  strings.TrimSpace(req.Name),
		Phone: req.Phone,
	}
	if err := s.repo.Create(ctx, &e); err != nil {
		return nil, err
	}
	resp := employeeToResponse(&e)
	return &resp, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, id uuid.UUID) (*dto.EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFoundf("Employee %s not found", id)
	}
	resp := employeeToResponse(e)
	return &resp, nil
}

func (s *employeeService) ListEmployees(ctx context.Context) ([]dto.EmployeeResponse, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		out = append(out, employeeToResponse(&employees[i]))
	}
	return out, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, id uuid.UUID, req dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFoundf("Employee %s not found", id)
	}
	if req.Name != nil {
		e.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		e.Phone = req.Phone
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	resp := employeeToResponse(e)
	return &resp, nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFoundf("Employee %s not found", id)
	}
	hasHistory, err := s.repo.HasHistory(ctx, id)
	if err != nil {
		return err
	}
	if hasHistory {
		return apierror.Conflictf("Cannot delete: employee has transaction history.")
	}
	return s.repo.Delete(ctx, id)
}

func employeeToResponse(e *model.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:    e.ID.String(),
		Name:  e.Name,
		Phone: e.Phone,
	}
}

package leave

import (
	"context"
)

type LeaveService interface {
	CreateLeave(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error)
	GetLeave(ctx context.Context, id string) (LeaveResponse, error)
	ListLeaves(ctx context.Context, filter LeaveFilter) (ListLeaveResponse, error)
	UpdateLeave(ctx context.Context, req UpdateLeaveRequest) (LeaveResponse, error)
	DeleteLeave(ctx context.Context, id string) error
	ReplaceLeaves(ctx context.Context, req ReplaceLeavesRequest) (int, error)
}

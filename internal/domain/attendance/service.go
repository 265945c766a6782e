package attendance

import "context"

type ScanService interface {
	ListScans(ctx context.Context, filter ScanFilter) (ListScanResponse, error)
	ImportScans(ctx context.Context, req ImportScansRequest) (ImportScansResponse, error)
	ReplaceScans(ctx context.Context, req ReplaceScansRequest) (int, error)
}

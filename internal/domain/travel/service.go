package travel

import "context"

type TravelService interface {
	CreateTravel(ctx context.Context, req CreateTravelRequest) (TravelGroupResponse, error)
	GetTravel(ctx context.Context, id string) (TravelResponse, error)
	ListTravels(ctx context.Context, filter TravelFilter) (ListTravelResponse, error)
	UpdateTravel(ctx context.Context, req UpdateTravelRequest) (TravelResponse, error)
	DeleteTravel(ctx context.Context, id string) error
	ReplaceTravels(ctx context.Context, req ReplaceTravelsRequest) (int, error)
}

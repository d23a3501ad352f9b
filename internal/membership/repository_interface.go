package membership

import "context"

type Repository interface {
	CreatePass(ctx context.Context, gymID int, req CreatePassRequest) (*MembershipPass, error)
	GetPassesByGym(ctx context.Context, gymID int) ([]MembershipPass, error)
	GetPassByID(ctx context.Context, id int) (*MembershipPass, error)
	Purchase(ctx context.Context, userID int, pass *MembershipPass) (*UserMembership, error)
	GetActiveForUserAndGym(ctx context.Context, userID, gymID int) (*UserMembership, error)
	GetUserMemberships(ctx context.Context, userID int) ([]UserMembership, error)
	IncrementVisits(ctx context.Context, membershipID int) error
	Cancel(ctx context.Context, membershipID, userID int) error
}

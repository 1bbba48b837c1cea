package contract

import "context"

type PrivateContractRepository interface {
	List(ctx context.Context) ([]*PrivateContract, error)
}

type OrgContractRepository interface {
	List(ctx context.Context) ([]*OrgContract, error)
}

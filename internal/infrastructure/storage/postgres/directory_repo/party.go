package directory_repo

import (
	"stockbook/internal/domain/directory/party"
	"stockbook/internal/infrastructure/storage/postgres"
	"stockbook/internal/infrastructure/storage/postgres/catalog_repo"
)

const partyTable = "dir_party"

// PartyRepo implements party.Repository.
type PartyRepo struct {
	*catalog_repo.BaseCatalogRepo[*party.Party]
}

// NewPartyRepo creates a new counterparty repository.
func NewPartyRepo(txManager *postgres.TxManager) *PartyRepo {
	return &PartyRepo{
		BaseCatalogRepo: catalog_repo.NewBaseCatalogRepo(
			txManager,
			partyTable,
			postgres.ExtractDBColumns[party.Party](),
			func() *party.Party { return &party.Party{} },
		),
	}
}

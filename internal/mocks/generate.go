package mocks

//go:generate mockery --name Provider --srcpkg github.com/aevon-lab/dimboard/internal/provider --output ./provider --outpkg providermocks --with-expecter

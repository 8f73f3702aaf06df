package store

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekruzvatanshoev/carlot/pkg/carlot/dal"
)

type repositoryFactory func(t *testing.T) Repository

var fakerMu sync.Mutex
var faker = gofakeit.New(42)

func fakeCar() dal.Car {
	fakerMu.Lock()
	defer fakerMu.Unlock()
	return dal.Car{
		Make:             faker.RandomString(referenceMakes),
		Model:            faker.CarModel(),
		Price:            float64(faker.Number(dal.MinPrice, 90000)),
		ReleaseDate:      dal.ReleaseDate(strconv.Itoa(faker.Number(1990, 2024))),
		Size:             faker.RandomString([]string{"Compact", "Midsize", "Large"}),
		Style:            faker.RandomString(referenceStyles),
		TransmissionType: faker.RandomString(referenceTransmissionTypes),
	}
}

func runRepositoryScenarios(t *testing.T, factory repositoryFactory) {
	t.Run("CreateAssignsIdentifier", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		in := fakeCar()
		created, err := repo.Create(ctx, in)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.False(t, created.IsDeleted)
		assert.Equal(t, in.Model, created.Model)

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created, *found)
	})

	t.Run("CreateHasNoUniqueness", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		car := fakeCar()
		first, err := repo.Create(ctx, car)
		require.NoError(t, err)
		second, err := repo.Create(ctx, car)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("FindAllKeepsInsertionOrder", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		var ids []string
		for i := 0; i < 5; i++ {
			c, err := repo.Create(ctx, fakeCar())
			require.NoError(t, err)
			ids = append(ids, c.ID)
		}

		cars, err := repo.FindAll(ctx, Filter{})
		require.NoError(t, err)
		require.Len(t, cars, len(ids))
		for i, c := range cars {
			assert.Equal(t, ids[i], c.ID)
		}
	})

	t.Run("FindAllFilters", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		toyota := fakeCar()
		toyota.Make = "Toyota"
		toyota.Style = "Sedan"
		ford := fakeCar()
		ford.Make = "Ford"
		ford.Style = "Sedan"
		for _, c := range []dal.Car{toyota, ford, toyota} {
			_, err := repo.Create(ctx, c)
			require.NoError(t, err)
		}

		cars, err := repo.FindAll(ctx, Filter{Make: "Toyota"})
		require.NoError(t, err)
		assert.Len(t, cars, 2)

		cars, err = repo.FindAll(ctx, Filter{Make: "Ford", Style: "Sedan"})
		require.NoError(t, err)
		assert.Len(t, cars, 1)

		cars, err = repo.FindAll(ctx, Filter{Make: "Tesla"})
		require.NoError(t, err)
		assert.Empty(t, cars)
	})

	t.Run("FindByIDAbsent", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		for _, id := range []string{"", "not-an-id", "64b7f0c2a1b2c3d4e5f60718", "3f1c8a2e-0000-4000-8000-000000000000"} {
			found, err := repo.FindByID(ctx, id)
			require.NoError(t, err, id)
			assert.Nil(t, found, id)
		}
	})

	t.Run("SoftDeleteKeepsRecord", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, fakeCar())
		require.NoError(t, err)

		deleted, err := repo.UpdateByID(ctx, created.ID, SoftDelete())
		require.NoError(t, err)
		require.NotNil(t, deleted)
		assert.True(t, deleted.IsDeleted)
		assert.Equal(t, created.Model, deleted.Model)

		all, err := repo.FindAll(ctx, Filter{})
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.True(t, all[0].IsDeleted)
		assert.Empty(t, Active(all))

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, found.IsDeleted)
	})

	t.Run("ReplaceOverwritesListing", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, fakeCar())
		require.NoError(t, err)

		next := fakeCar()
		next.ID = "ignored"
		next.IsDeleted = true
		updated, err := repo.UpdateByID(ctx, created.ID, Replace(next))
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, created.ID, updated.ID)
		assert.False(t, updated.IsDeleted)
		assert.Equal(t, next.Model, updated.Model)
		assert.Equal(t, next.Price, updated.Price)
		assert.Equal(t, next.ReleaseDate, updated.ReleaseDate)
	})

	t.Run("ReplaceSkipsDeleted", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, fakeCar())
		require.NoError(t, err)
		_, err = repo.UpdateByID(ctx, created.ID, SoftDelete())
		require.NoError(t, err)

		updated, err := repo.UpdateByID(ctx, created.ID, Replace(fakeCar()))
		require.NoError(t, err)
		assert.Nil(t, updated)

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.Model, found.Model, "deleted record must not change")
	})

	t.Run("UpdateUnknownID", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		updated, err := repo.UpdateByID(ctx, "64b7f0c2a1b2c3d4e5f60718", SoftDelete())
		require.NoError(t, err)
		assert.Nil(t, updated)
	})

	t.Run("Ping", func(t *testing.T) {
		repo := factory(t)
		assert.NoError(t, repo.Ping(context.Background()))
	})
}

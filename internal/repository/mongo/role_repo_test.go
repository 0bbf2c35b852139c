package mongo

import (
	"context"
	"testing"

	"invitesmanager/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestRoleRepository_ListByUserID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("active roles of the user", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "user-1"},
				{Key: "role_ids", Value: bson.A{"role-1", "role-2"}},
			}),
			mtest.CreateCursorResponse(0, "test.roles", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "role-1"}, {Key: "name", Value: "invitesAdmin"}, {Key: "is_active", Value: true}},
			),
		)

		roles, err := NewRoleRepository(mt.DB).ListByUserID(context.Background(), "user-1")
		require.NoError(mt, err)
		require.Len(mt, roles, 1)
		assert.Equal(mt, domain.RoleInvitesAdmin, roles[0].Name)
	})

	mt.Run("user without roles", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "user-2"},
		}))

		roles, err := NewRoleRepository(mt.DB).ListByUserID(context.Background(), "user-2")
		require.NoError(mt, err)
		assert.Empty(mt, roles)
	})

	mt.Run("deleted or deactivated user holds no roles", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		roles, err := NewRoleRepository(mt.DB).ListByUserID(context.Background(), "gone-user")
		require.NoError(mt, err)
		assert.NotNil(mt, roles)
		assert.Empty(mt, roles)
	})
}

func TestRoleRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate name", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		err := NewRoleRepository(mt.DB).Create(context.Background(), domain.NewRole("", "admin"))
		require.ErrorIs(mt, err, domain.ErrConflict)
	})
}

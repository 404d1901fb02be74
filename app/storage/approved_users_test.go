package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/umputun/tg-moderator/lib/approved"
)

func (s *StorageTestSuite) TestApprovedUsers() {
	ctx := context.Background()
	_, err := NewApprovedUsers(ctx, nil)
	s.EqualError(err, "db connection is nil")

	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			au, err := NewApprovedUsers(ctx, db)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE approved_users")

			users, err := au.Read(ctx)
			s.Require().NoError(err)
			s.Empty(users)

			s.EqualError(au.Write(ctx, approved.UserInfo{}), "user id can't be empty")
			s.Require().NoError(au.Write(ctx, approved.UserInfo{UserID: 1, UserName: "one", Timestamp: time.Now().Add(-time.Hour)}))
			s.Require().NoError(au.Write(ctx, approved.UserInfo{UserID: 2, UserName: "two"}))
			s.Require().NoError(au.Write(ctx, approved.UserInfo{UserID: 1, UserName: "one-renamed", Timestamp: time.Now().Add(-time.Hour)}))

			users, err = au.Read(ctx)
			s.Require().NoError(err)
			s.Require().Len(users, 2)
			s.Equal(int64(2), users[0].UserID, "newest first")
			s.Equal("one-renamed", users[1].UserName, "upserted")

			s.Require().NoError(au.Delete(ctx, 1))
			s.EqualError(au.Delete(ctx, 1), "user 1 not found")
			users, err = au.Read(ctx)
			s.Require().NoError(err)
			s.Len(users, 1)
		})
	}
}

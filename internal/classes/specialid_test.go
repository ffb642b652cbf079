package classes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cillii/catalog-backend/pkg/db/models"
)

func seedCodes(t *testing.T, repo *Repository, codes ...string) {
	t.Helper()
	for _, code := range codes {
		require.NoError(t, repo.Create(context.Background(), &models.Class{
			SpecialID:    code,
			MainCategory: "misc",
			Quality:      "std",
			ClassName:    "seed " + code,
		}))
	}
}

func TestNextSpecialID(t *testing.T) {
	cases := []struct {
		name   string
		seed   []string
		prefix string
		want   string
	}{
		{"empty store", nil, "CR", "CR01"},
		{"sequential", []string{"CR01", "CR02"}, "CR", "CR03"},
		{"gap does not matter", []string{"CR01", "CR07"}, "CR", "CR08"},
		{"width follows the max", []string{"CR008", "CR009"}, "CR", "CR010"},
		{"other prefixes ignored", []string{"CR01", "XX99"}, "CR", "CR02"},
		{"non numeric suffix counts as zero", []string{"CRAB"}, "CR", "CR01"},
		{"prefix is case folded", []string{"CR04"}, " cr ", "CR05"},
		{"fresh prefix", []string{"CR01"}, "ZZ", "ZZ01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := NewRepository(setupTestDB(t))
			svc := NewService(repo, &fakeVideoStore{}, testLogger())
			seedCodes(t, repo, tc.seed...)

			got, err := svc.NextSpecialID(context.Background(), tc.prefix)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

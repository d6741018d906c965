package catalog

import (
	"context"
	"net/url"
	"testing"

	"adriarent/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	ids map[string]string
}

func (r fakeResolver) ResolveSlug(_ context.Context, slug string) (string, bool) {
	id, ok := r.ids[slug]
	return id, ok
}

var testResolver = fakeResolver{ids: map[string]string{
	"apartments": "cat-1",
	"boats":      "cat-2",
}}

func TestBuildPredicate_PublicDefaultsToActiveOnly(t *testing.T) {
	p, err := BuildPredicate(context.Background(), url.Values{}, Scope{}, testResolver)

	require.NoError(t, err)
	assert.Equal(t, []models.ListingStatus{models.StatusActive}, p.StatusSet)
}

func TestBuildPredicate_OwnerScopeHasNoStatusDefault(t *testing.T) {
	p, err := BuildPredicate(context.Background(), url.Values{}, Scope{OwnerID: "u-1"}, testResolver)

	require.NoError(t, err)
	assert.Nil(t, p.StatusSet)
	assert.Equal(t, "u-1", p.OwnerID)
}

func TestBuildPredicate_OwnerActiveExpandsToLiveGroup(t *testing.T) {
	q := url.Values{"status": {"active"}}

	p, err := BuildPredicate(context.Background(), q, Scope{OwnerID: "u-1"}, testResolver)

	require.NoError(t, err)
	assert.Equal(t, models.LiveStatuses, p.StatusSet)
}

func TestBuildPredicate_InactiveStaysSingleLiteral(t *testing.T) {
	q := url.Values{"status": {"inactive"}}

	p, err := BuildPredicate(context.Background(), q, Scope{OwnerID: "u-1"}, testResolver)

	require.NoError(t, err)
	assert.Equal(t, []models.ListingStatus{models.StatusInactive}, p.StatusSet)
}

func TestBuildPredicate_TypeOverridesStatus(t *testing.T) {
	q := url.Values{
		"status": {"active"},
		"type":   {"exchange"},
	}

	p, err := BuildPredicate(context.Background(), q, Scope{OwnerID: "u-1"}, testResolver)

	require.NoError(t, err)
	assert.Equal(t, []models.ListingStatus{models.StatusExchange}, p.StatusSet)
}

func TestBuildPredicate_UnknownTypeIsBadInput(t *testing.T) {
	q := url.Values{"type": {"barter"}}

	_, err := BuildPredicate(context.Background(), q, Scope{OwnerID: "u-1"}, testResolver)

	assert.ErrorIs(t, err, models.ErrBadInput)
}

func TestBuildPredicate_UnknownCategoryMatchesNothing(t *testing.T) {
	q := url.Values{"category": {"spaceships"}}

	p, err := BuildPredicate(context.Background(), q, Scope{}, testResolver)

	require.NoError(t, err)
	assert.True(t, p.MatchNone)
}

func TestBuildPredicate_KnownCategoryResolvesToID(t *testing.T) {
	q := url.Values{"category": {"apartments"}}

	p, err := BuildPredicate(context.Background(), q, Scope{}, testResolver)

	require.NoError(t, err)
	assert.False(t, p.MatchNone)
	assert.Equal(t, "cat-1", p.CategoryID)
}

func TestBuildPredicate_MalformedPriceTreatedAsAbsent(t *testing.T) {
	q := url.Values{
		"minPrice": {"abc"},
		"maxPrice": {"50"},
	}

	p, err := BuildPredicate(context.Background(), q, Scope{}, testResolver)

	require.NoError(t, err)
	assert.Nil(t, p.PriceMin)
	require.NotNil(t, p.PriceMax)
	assert.Equal(t, 50.0, *p.PriceMax)
}

func TestBuildPredicate_OptionsSplitAndGathered(t *testing.T) {
	q := url.Values{"options": {"wifi,parking", "pool"}}

	p, err := BuildPredicate(context.Background(), q, Scope{}, testResolver)

	require.NoError(t, err)
	assert.Equal(t, []string{"wifi", "parking", "pool"}, p.OptionsAll)
}

func TestBuildPredicate_OwnerParamDisablesPublicDefault(t *testing.T) {
	q := url.Values{"ownerId": {"u-9"}}

	p, err := BuildPredicate(context.Background(), q, Scope{}, testResolver)

	require.NoError(t, err)
	assert.Nil(t, p.StatusSet)
	assert.Equal(t, "u-9", p.OwnerID)
}

func TestBuildPredicate_AdminScopeSeesAllStatuses(t *testing.T) {
	p, err := BuildPredicate(context.Background(), url.Values{}, Scope{Admin: true}, testResolver)

	require.NoError(t, err)
	assert.Nil(t, p.StatusSet)
	assert.Empty(t, p.OwnerID)
}

func TestBuildPredicate_FreeTextAcceptsBothParamNames(t *testing.T) {
	p, err := BuildPredicate(context.Background(), url.Values{"q": {"sea view"}}, Scope{}, testResolver)
	require.NoError(t, err)
	assert.Equal(t, "sea view", p.FreeText)

	p, err = BuildPredicate(context.Background(), url.Values{"search": {"budva"}}, Scope{OwnerID: "u-1"}, testResolver)
	require.NoError(t, err)
	assert.Equal(t, "budva", p.FreeText)
}

package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseService_NoTokenNoRequest(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}
	s := NewExpenseService(fc, newProvider(t, ""))
	valid := models.ExpenseInput{Title: "x", Category: models.CategoryHome}

	_, err := s.List(ctx)
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	_, err = s.Create(ctx, valid)
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	_, err = s.Update(ctx, 1, valid)
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.ErrorIs(t, s.Delete(ctx, 1), client.ErrUnauthorized)
	_, err = s.WeeklyGraph(ctx)
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	assert.Equal(t, 0, fc.Calls)
}

func TestExpenseService_AttachesToken(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{ListRet: []models.Expense{{ID: 1}}}
	s := NewExpenseService(fc, newProvider(t, "tok"))

	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "tok", fc.LastToken)
}

func TestExpenseService_CreateValidatesFirst(t *testing.T) {
	fc := &fakeClient{}
	s := NewExpenseService(fc, newProvider(t, "tok"))

	_, err := s.Create(context.Background(), models.ExpenseInput{Title: " ", Category: models.CategoryHome})
	require.ErrorIs(t, err, models.ErrEmptyTitle)
	assert.Equal(t, client.KindValidation, client.KindOf(err))

	_, err = s.Update(context.Background(), 3, models.ExpenseInput{Title: "x", Category: "Fun"})
	require.ErrorIs(t, err, models.ErrInvalidCategory)

	assert.Equal(t, 0, fc.Calls)
}

func TestExpenseService_Passthrough(t *testing.T) {
	ctx := context.Background()
	in := models.ExpenseInput{Title: "Milk", Category: models.CategoryGrocery, Amount: 2}
	fc := &fakeClient{
		CreateRet: &models.Expense{ID: 5, Title: "Milk"},
		UpdateRet: &models.Expense{ID: 5, Title: "Milk"},
		GraphRet:  &models.Image{Data: []byte("png"), ContentType: "image/png"},
	}
	s := NewExpenseService(fc, newProvider(t, "tok"))

	e, err := s.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(5), e.ID)
	assert.Equal(t, in, fc.LastInput)

	_, err = s.Update(ctx, 5, in)
	require.NoError(t, err)
	assert.Equal(t, int64(5), fc.LastID)

	require.NoError(t, s.Delete(ctx, 9))
	assert.Equal(t, int64(9), fc.LastID)

	img, err := s.WeeklyGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlashStore_Drain(t *testing.T) {
	ctx := context.Background()
	flash := NewFlashStore(newMemStorage(), "s1")

	assert.Nil(t, flash.Drain(ctx))

	flash.Notify(ctx, Toast{Type: ToastSuccess, Message: "Item added to cart"})
	flash.Notify(ctx, Toast{Type: ToastError, Message: "Order failed. Please try again."})

	got := flash.Drain(ctx)
	assert.Equal(t, []Toast{
		{Type: ToastSuccess, Message: "Item added to cart"},
		{Type: ToastError, Message: "Order failed. Please try again."},
	}, got)
	assert.Nil(t, flash.Drain(ctx))
}

func TestMultiNotifier(t *testing.T) {
	a, b := &ToastRecorder{}, &ToastRecorder{}
	MultiNotifier{a, nil, b}.Notify(context.Background(), Toast{Type: ToastInfo, Message: "hi"})
	assert.Len(t, a.Toasts(), 1)
	assert.Len(t, b.Toasts(), 1)
}

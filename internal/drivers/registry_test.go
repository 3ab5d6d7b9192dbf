package drivers

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datashield/datashield-go/internal/models"
)

func newStubDriver(tag string) models.Driver {
	return models.DriverFunc(func(ctx context.Context, info models.LoginInfo, restore string) (models.Connection, error) {
		return nil, models.NewDSError("%s cannot connect to %s", tag, info.Name)
	})
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Cleanup(func() { Unregister("test.StubDriver") })

	Register("test.StubDriver", newStubDriver("first"))

	driver, err := Get("TEST.stubdriver")
	require.NoError(t, err)

	_, err = driver.NewConnection(context.Background(), models.LoginInfo{Name: "server1"}, "")
	assert.EqualError(t, err, "first cannot connect to server1")
	assert.Contains(t, Names(), "test.StubDriver")
	assert.NotContains(t, Names(), "test.stubdriver")
}

func TestRegistry_NamesKeepRegisteredCase(t *testing.T) {
	t.Cleanup(func() {
		Unregister("zz.OpalDriver")
		Unregister("ZZ.ArmadilloDriver")
	})

	Register("zz.OpalDriver", newStubDriver("opal"))
	Set(" ZZ.ArmadilloDriver ", newStubDriver("armadillo"))

	names := Names()
	assert.Contains(t, names, "zz.OpalDriver")
	assert.Contains(t, names, "ZZ.ArmadilloDriver")
	assert.Less(t, slices.Index(names, "ZZ.ArmadilloDriver"), slices.Index(names, "zz.OpalDriver"))

	// lookups still ignore the case
	_, err := Get("zz.armadillodriver")
	assert.NoError(t, err)
}

func TestRegistry_RegisterKeepsFirst(t *testing.T) {
	t.Cleanup(func() { Unregister("test.Dup") })

	Register("test.Dup", newStubDriver("first"))
	Register("test.Dup", newStubDriver("second"))

	driver, err := Get("test.Dup")
	require.NoError(t, err)
	_, err = driver.NewConnection(context.Background(), models.LoginInfo{Name: "s"}, "")
	assert.EqualError(t, err, "first cannot connect to s")

	Set("test.Dup", newStubDriver("second"))
	driver, err = Get("test.Dup")
	require.NoError(t, err)
	_, err = driver.NewConnection(context.Background(), models.LoginInfo{Name: "s"}, "")
	assert.EqualError(t, err, "second cannot connect to s")
}

func TestRegistry_Unknown(t *testing.T) {
	_, err := Get("does.not.Exist")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDriverNotFound)
	assert.Contains(t, err.Error(), "does.not.Exist")
}

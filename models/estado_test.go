package models_test

import (
	"testing"

	"distrimaxi-api/models"

	"github.com/stretchr/testify/assert"
)

func TestTransicionPermitida(t *testing.T) {
	t.Parallel()

	t.Run("admin moves through the working states", func(t *testing.T) {
		t.Parallel()

		assert.True(t, models.TransicionPermitida(models.EstadoPendiente, models.EstadoVisto, models.RolAdmin))
		assert.True(t, models.TransicionPermitida(models.EstadoVisto, models.EstadoEnPreparacion, models.RolAdmin))
		assert.True(t, models.TransicionPermitida(models.EstadoListoParaEntrega, models.EstadoEntregado, models.RolAdmin))
		assert.True(t, models.TransicionPermitida(models.EstadoEntregado, models.EstadoPendiente, models.RolAdmin))
	})

	t.Run("entregado is never reachable from itself", func(t *testing.T) {
		t.Parallel()

		assert.False(t, models.TransicionPermitida(models.EstadoEntregado, models.EstadoEntregado, models.RolAdmin))
		assert.False(t, models.TransicionPermitida(models.EstadoEntregado, models.EstadoEntregado, models.RolDeposito))
	})

	t.Run("deposito limited to its allow-list", func(t *testing.T) {
		t.Parallel()

		assert.True(t, models.TransicionPermitida(models.EstadoPendiente, models.EstadoVisto, models.RolDeposito))
		assert.True(t, models.TransicionPermitida(models.EstadoVisto, models.EstadoEntregado, models.RolDeposito))
		assert.False(t, models.TransicionPermitida(models.EstadoPendiente, models.EstadoArchivado, models.RolDeposito))
		assert.False(t, models.TransicionPermitida(models.EstadoArchivado, models.EstadoPendiente, models.RolDeposito))
	})

	t.Run("combinado is terminal", func(t *testing.T) {
		t.Parallel()

		for _, hacia := range []models.Estado{
			models.EstadoPendiente, models.EstadoVisto, models.EstadoEnPreparacion,
			models.EstadoListoParaEntrega, models.EstadoEntregado, models.EstadoArchivado,
		} {
			assert.False(t, models.TransicionPermitida(models.EstadoCombinado, hacia, models.RolAdmin), "combinado → %s", hacia)
		}
	})

	t.Run("combinado is only set by the merge, never by a direct update", func(t *testing.T) {
		t.Parallel()

		for _, desde := range []models.Estado{
			models.EstadoPendiente, models.EstadoVisto, models.EstadoEnPreparacion,
			models.EstadoListoParaEntrega, models.EstadoEntregado, models.EstadoArchivado,
		} {
			assert.False(t, models.TransicionPermitida(desde, models.EstadoCombinado, models.RolAdmin), "%s → combinado", desde)
		}
	})

	t.Run("archivado only returns to pendiente", func(t *testing.T) {
		t.Parallel()

		assert.True(t, models.TransicionPermitida(models.EstadoArchivado, models.EstadoPendiente, models.RolAdmin))
		assert.False(t, models.TransicionPermitida(models.EstadoArchivado, models.EstadoEntregado, models.RolAdmin))
		assert.False(t, models.TransicionPermitida(models.EstadoArchivado, models.EstadoVisto, models.RolAdmin))
	})
}

func TestEstadoValido(t *testing.T) {
	t.Parallel()

	assert.True(t, models.Estado("pendiente").Valido())
	assert.True(t, models.Estado("archivado").Valido())
	assert.False(t, models.Estado("enviado").Valido())
	assert.False(t, models.Estado("").Valido())
}

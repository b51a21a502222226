package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Seis caracteres alfanuméricos bastam para o volume de alertas por tenant e
// mantêm o identificador curto nas URLs de atualização de status.
const idLength = 6

// GenerateID gera o identificador curto usado nos alertas.
func GenerateID() (string, error) {
	return gonanoid.Generate(idAlphabet, idLength)
}

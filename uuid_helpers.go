package guard

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// IdentityUUID parses an identity's primary key as a uuid.
func IdentityUUID(identity Identity) (uuid.UUID, error) {
	if identity == nil {
		return uuid.Nil, goerrors.New("identity is nil", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	id, err := uuid.Parse(identity.ID())
	if err != nil {
		return uuid.Nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "identity has no usable uuid id").
			WithMetadata(map[string]any{"id": identity.ID()})
	}

	return id, nil
}

// HasUUID reports whether IdentityUUID will succeed.
func HasUUID(identity Identity) bool {
	if identity == nil {
		return false
	}
	_, err := IdentityUUID(identity)
	return err == nil
}

package app

import (
	"strings"

	"github.com/rogerbox/rogerbox/internal/domain"
)

// AuthorizationPolicy décide des droits d'administration. Construite une fois
// au démarrage et injectée dans la couche HTTP.
type AuthorizationPolicy interface {
	IsAdmin(identity domain.Identity) bool
}

// ConfigPolicy : admin si le rôle stocké (claim signé) est admin, ou si l'id
// figure dans la liste de configuration. L'email seul ne donne jamais de droits :
// il n'est pas vérifié à l'inscription. Les emails configurés passent par
// AuthService.PromoteAdmins au démarrage.
type ConfigPolicy struct {
	userIDs map[string]struct{}
}

func NewConfigPolicy(adminUserIDs []string) *ConfigPolicy {
	p := &ConfigPolicy{userIDs: map[string]struct{}{}}
	for _, id := range adminUserIDs {
		if id = strings.TrimSpace(id); id != "" {
			p.userIDs[id] = struct{}{}
		}
	}
	return p
}

func (p *ConfigPolicy) IsAdmin(identity domain.Identity) bool {
	if identity.UserID == "" {
		return false
	}
	if identity.Role == domain.RoleAdmin {
		return true
	}
	_, ok := p.userIDs[identity.UserID]
	return ok
}

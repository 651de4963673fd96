// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - UserStore: user lookup and creation (internal/auth/service.go)
//   - PetStore: pet catalogue (internal/shelter/service.go)
//   - AdoptionStore: adoption requests and dashboard counts (internal/shelter/service.go)
//   - Pinger: store health check (internal/http/health.go)
//
// ## Supporting Service Interfaces
//
//   - ImageStore: copying pet images into the managed directory (internal/shelter/service.go)
//   - Auditor: audit trail writers, one per consumer (internal/shelter, internal/auth)
//
// ## Presentation Interfaces
//
//   - PetBrowser, ShelterAdmin, AuditReader: what the HTTP controllers call
//     (internal/http/stores.go), composed into ShelterService
//
// # Adding a New Use Case
//
//  1. Add the repository method in internal/database/<entity>/ and extend
//     the store interface in internal/shelter/service.go.
//
//  2. Add the service method on shelter.Service. It takes the caller's
//     *auth.Session and checks RequireUser or RequireAdmin first:
//
//     func (s *Service) ApproveAdoption(ctx context.Context, session *auth.Session, id uint) error {
//         if err := session.RequireAdmin(); err != nil {
//             return err
//         }
//         return s.adoptions.Approve(ctx, id)
//     }
//
//  3. Expose it through the matching interface in internal/http/stores.go,
//     add a controller method and register the route in router.go.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces

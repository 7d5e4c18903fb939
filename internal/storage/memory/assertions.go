package memory

import "github.com/tinoosan/minledger/internal/service/account"

// Compile-time interface assertion documenting which interfaces Store satisfies.
var _ account.Store = (*Store)(nil)

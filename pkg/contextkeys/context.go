package contextkeys

// Custom key type avoids collisions with other packages storing values
// in the same context.
type contextKey string

// DBContextKey is the key under which the request-scoped *gorm.DB handle
// (pool or transaction) is stored.
const DBContextKey = contextKey("db")

// Package credentials persists vault entries.
//
// Every operation is scoped by the owning account id, so one account can
// never read, change or delete another account's rows; a row owned by
// someone else looks exactly like a missing one (common.ErrorNotFound).
//
// Username and password columns hold opaque cryptox blobs. Only the
// account (site/app name) column is stored in clear, which is why Search
// accepts that field alone and reports common.ErrFieldNotSearchable for
// the rest.
//
// Implementations: SQLiteRepository and PostgresRepository, both over
// dbx.DBTX.
package credentials

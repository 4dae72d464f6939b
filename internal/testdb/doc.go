// Package testdb provides helpers for tests that need a real PostgreSQL
// database.
//
// Tests call GetTestDBWithT, which skips the test when DATABASE_URL is not
// set, applies the embedded migrations once per process and registers
// cleanup of the connection. Each test then runs inside WithTx, whose
// transaction is always rolled back, so tests can use t.Parallel() and need
// no manual cleanup:
//
//	func TestTodoStore_Create(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        todos := postgres.NewPostgresTodoStore(tx, nil)
//	        require.NoError(t, todos.Create(context.Background(), item))
//	    })
//	}
package testdb

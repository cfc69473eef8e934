// Package password provides credential verification for membergate.
//
// Two hash families are supported, dispatched by prefix:
//
//   - $argon2id$ — PHC-formatted argon2id, the scheme for all newly
//     written credentials.
//   - $P$ / $H$ — WordPress PHPass portable hashes, verified for accounts
//     migrated from the WordPress membership site. Verification only;
//     this package never writes new PHPass hashes.
//
// There is deliberately no "accept anything" path: an unrecognized hash
// format verifies false.
package password

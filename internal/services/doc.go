// Package services implements the HTTP boundary of the client: the
// curriculum CMS REST API and the storage provider's upload endpoint.
//
// [ClassroomService] covers the CMS surface — hierarchy reads, multipart
// content uploads, upload signatures, and asset records — behind the
// [CurriculumAPI] interface. Requests authenticate through an oauth2 client
// (static token or authorization-code flow) or imported browser-session
// headers, and pass through a client-side rate limiter.
//
// [CloudinaryService] pushes signed binaries straight to the storage
// provider so large media never proxies through the CMS server.
//
// Both upload paths stream their multipart bodies through a counting reader,
// so [TransferProgress] observers see bytes as the transport actually sends
// them rather than as the body is built.
//
// [APIService] remains as a raw escape hatch for CMS endpoints the typed
// client doesn't cover, used by the api CLI command.
package services

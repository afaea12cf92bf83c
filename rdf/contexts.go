package rdf

// Context URIs recognized by the offline document loader. zcapContext is
// this module's own vocabulary; the other three are the W3C security suite
// contexts a Data Integrity proof document references.
const (
	zcapContext     = "https://w3id.org/zcap/v1"
	securityContext = "https://w3id.org/security/v1"
	ed25519Context  = "https://w3id.org/security/suites/ed25519-2020/v1"
)

// https://w3id.org/zcap/v1
var zcapV1 = `{
  "@context": {
    "id": "@id",
    "type": "@type",
    "@protected": true,

    "zcap": "https://w3id.org/zcap#",
    "sec": "https://w3id.org/security#",
    "xsd": "http://www.w3.org/2001/XMLSchema#",

    "controller": {"@id": "sec:controller", "@type": "@id"},
    "invocationTarget": {"@id": "zcap:invocationTarget", "@type": "@id"},
    "parentCapability": {"@id": "zcap:parentCapability", "@type": "@id"},
    "invoker": {"@id": "zcap:invoker", "@type": "@id"},
    "expires": {"@id": "zcap:expires", "@type": "xsd:dateTime"},
    "allowedAction": "zcap:allowedAction",
    "action": "zcap:action",
    "caveat": "zcap:caveat",
    "capabilityChain": {"@id": "zcap:capabilityChain", "@container": "@list"},
    "capability": {"@id": "zcap:capability", "@type": "@id"}
  }
}`

// https://w3id.org/security/v1
var securityV1 = `{
  "@context": {
    "id": "@id",
    "type": "@type",

    "dc": "http://purl.org/dc/terms/",
    "sec": "https://w3id.org/security#",
    "xsd": "http://www.w3.org/2001/XMLSchema#",

    "proof": {"@id": "sec:proof", "@type": "@id", "@container": "@graph"},
    "created": {"@id": "dc:created", "@type": "xsd:dateTime"},
    "creator": {"@id": "dc:creator", "@type": "@id"},
    "domain": "sec:domain",
    "nonce": "sec:nonce",
    "proofPurpose": "sec:proofPurpose",
    "proofValue": "sec:proofValue",
    "verificationMethod": {"@id": "sec:verificationMethod", "@type": "@id"}
  }
}`

// https://w3id.org/security/suites/ed25519-2020/v1
var ed255192020V1 = `{
  "@context": {
    "id": "@id",
    "type": "@type",
    "@protected": true,
    "proof": {
      "@id": "https://w3id.org/security#proof",
      "@type": "@id",
      "@container": "@graph"
    },
    "Ed25519VerificationKey2020": {
      "@id": "https://w3id.org/security#Ed25519VerificationKey2020",
      "@context": {
        "@protected": true,
        "id": "@id",
        "type": "@type",
        "controller": {
          "@id": "https://w3id.org/security#controller",
          "@type": "@id"
        },
        "revoked": {
          "@id": "https://w3id.org/security#revoked",
          "@type": "http://www.w3.org/2001/XMLSchema#dateTime"
        },
        "publicKeyMultibase": {
          "@id": "https://w3id.org/security#publicKeyMultibase",
          "@type": "https://w3id.org/security#multibase"
        }
      }
    },
    "Ed25519Signature2020": {
      "@id": "https://w3id.org/security#Ed25519Signature2020",
      "@context": {
        "@protected": true,
        "id": "@id",
        "type": "@type",
        "challenge": "https://w3id.org/security#challenge",
        "created": {
          "@id": "http://purl.org/dc/terms/created",
          "@type": "http://www.w3.org/2001/XMLSchema#dateTime"
        },
        "domain": "https://w3id.org/security#domain",
        "expires": {
          "@id": "https://w3id.org/security#expiration",
          "@type": "http://www.w3.org/2001/XMLSchema#dateTime"
        },
        "nonce": "https://w3id.org/security#nonce",
        "proofPurpose": {
          "@id": "https://w3id.org/security#proofPurpose",
          "@type": "@vocab",
          "@context": {
            "@protected": true,
            "id": "@id",
            "type": "@type",
            "capabilityInvocation": {
              "@id": "https://w3id.org/security#capabilityInvocationMethod",
              "@type": "@id",
              "@container": "@set"
            },
            "capabilityDelegation": {
              "@id": "https://w3id.org/security#capabilityDelegationMethod",
              "@type": "@id",
              "@container": "@set"
            }
          }
        },
        "proofValue": {
          "@id": "https://w3id.org/security#proofValue",
          "@type": "https://w3id.org/security#multibase"
        },
        "verificationMethod": {
          "@id": "https://w3id.org/security#verificationMethod",
          "@type": "@id"
        }
      }
    }
  }
}`

package diagram

import "strings"

// templates are minimal skeletons to start a diagram from.
var templates = map[string]string{
	"class": `@startuml
class ClassName {
  -privateField: Type
  +publicMethod(): ReturnType
}
@enduml`,
	"sequence": `@startuml
participant A
participant B
A -> B: message
B --> A: response
@enduml`,
	"activity": `@startuml
start
:Activity;
if (Condition?) then (yes)
  :Action;
else (no)
  :Other action;
endif
stop
@enduml`,
	"usecase": `@startuml
actor User
rectangle System {
  User -- (Use case)
}
@enduml`,
	"state": `@startuml
[*] --> State1
State1 --> State2 : event
State2 --> [*]
@enduml`,
	"component": `@startuml
component [Component] as C
interface Interface
C - Interface
@enduml`,
	"deployment": `@startuml
node Server {
  artifact Application
}
database Database
Server --> Database
@enduml`,
	"object": `@startuml
object objectName {
  field = value
}
@enduml`,
	"mermaid": `graph TD
    A[Start] --> B[Step]
    B --> C[End]`,
	"d2": `a -> b: label`,
	"graphviz": `digraph G {
  A -> B;
}`,
	"erd": `[Entity]
*id
name`,
}

// examples are complete diagrams showing typical use of each type.
var examples = map[string]string{
	"class": `@startuml
class Car {
  -String make
  -String model
  -int year
  +start()
  +stop()
}
class Engine {
  -int horsepower
  +ignite()
}
Car *-- Engine : has
@enduml`,
	"sequence": `@startuml
actor User
participant Frontend
participant "API Server" as API
database DB
User -> Frontend: Login request
Frontend -> API: POST /login
API -> DB: Query user
DB --> API: User record
API --> Frontend: JWT token
Frontend --> User: Logged in
@enduml`,
	"activity": `@startuml
start
:Receive order;
if (In stock?) then (yes)
  :Ship order;
  :Send invoice;
else (no)
  :Notify customer;
endif
:Close order;
stop
@enduml`,
	"usecase": `@startuml
left to right direction
actor Customer
actor Clerk
rectangle "Online Shop" {
  Customer -- (Browse catalog)
  Customer -- (Place order)
  (Place order) .> (Pay) : include
  Clerk -- (Ship order)
}
@enduml`,
	"state": `@startuml
[*] --> Idle
Idle --> Processing : submit
Processing --> Done : success
Processing --> Failed : error
Failed --> Idle : retry
Done --> [*]
@enduml`,
	"component": `@startuml
package "Web Tier" {
  [Load Balancer]
  [Web App]
}
package "Data Tier" {
  database "PostgreSQL"
}
[Load Balancer] --> [Web App]
[Web App] --> PostgreSQL
@enduml`,
	"deployment": `@startuml
node "Kubernetes Cluster" {
  node "Pod" {
    artifact "api.jar"
  }
}
cloud "CDN"
database "Postgres"
CDN --> Pod
Pod --> Postgres
@enduml`,
	"object": `@startuml
object order {
  id = 1042
  status = "shipped"
}
object customer {
  name = "Ada"
}
customer --> order
@enduml`,
	"mermaid": `sequenceDiagram
    participant Client
    participant Server
    Client->>Server: GET /items
    Server-->>Client: 200 OK`,
	"d2": `web: Web App
db: Database {shape: cylinder}
web -> db: queries`,
	"graphviz": `digraph pipeline {
  rankdir=LR;
  fetch -> build -> test -> deploy;
  test -> fetch [label="fail", style=dashed];
}`,
	"erd": `[Person]
*name
height
weight

[Location]
*id
city

Person *--1 Location`,
}

// Template returns the starter markup for a diagram type, or "" if none
// exists.
func Template(name string) string {
	return templates[strings.ToLower(name)]
}

// Example returns a complete example for a diagram type, or "" if none
// exists.
func Example(name string) string {
	return examples[strings.ToLower(name)]
}

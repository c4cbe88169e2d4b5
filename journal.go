package main

import (
	"bytes"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/wansing/journal/core"
	"github.com/wansing/journal/sqldb"
	"github.com/wansing/journal/sqldb/mysql"
	"github.com/wansing/journal/sqldb/sqlite3"
	"github.com/wansing/journal/web"
	"github.com/xo/dburl"
	"golang.org/x/crypto/ssh/terminal"
	"gopkg.in/ini.v1"
)

func init() {
	log.SetFlags(0) // no log prefixes, on most systems systemd-journald adds them
}

func main() {

	var dbArg string // is in both FlagSets

	// default FlagSet

	var configPath = flag.String("config", "", "read site settings from this ini `file`")
	flag.StringVar(&dbArg, "db", "sqlite3:journal.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&cache=shared", "sql database url, see github.com/xo/dburl")
	var listenAddr = flag.String("listen", "127.0.0.1:8080", "serve HTTP content at this `ip:port`")

	// init FlagSet

	var initFlags = flag.NewFlagSet("init", flag.ExitOnError)

	initFlags.StringVar(&dbArg, "db", "sqlite3:journal.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&cache=shared", "sql database url, see github.com/xo/dburl") // copied from above
	var initInsert = initFlags.Bool("insert", false, "creates the given group or user")
	var initListUsers = initFlags.Bool("list-users", false, "prints all users")
	var initSetPassword = initFlags.Bool("set-password", false, "sets the password of the given user")
	var username = initFlags.String("user", "", "specifies a user `name`")
	var groupSlug = initFlags.String("group", "", "specifies a group `slug`")
	var groupTitle = initFlags.String("title", "", "specifies the `title` of the group")
	var groupDescription = initFlags.String("description", "", "specifies the `description` of the group")

	if len(os.Args) > 1 && os.Args[1] == "init" {
		initFlags.Parse(os.Args[2:])
	} else {
		flag.Parse()
	}

	// database

	dbURL, err := dburl.Parse(dbArg)
	if err != nil {
		log.Printf("could not parse database url: %v", err)
		return
	}

	sqlDB, err := sql.Open(dbURL.Driver, dbURL.DSN)
	if err != nil {
		log.Printf("could not open sql database: %v", err)
		return
	}

	if err = sqlDB.Ping(); err != nil {
		log.Printf("could not ping sql database: %v", err)
		return
	}

	log.Printf("using database %s", dbURL.String())

	// assemble stuff

	var sessionStore scs.Store
	switch dbURL.Driver {
	case "mysql":
		sessionStore = mysql.NewSessionStore(sqlDB)
	case "sqlite3":
		sessionStore = sqlite3.NewSessionStore(sqlDB)
	default:
		log.Printf("unknown database backend: %s", dbURL.Driver)
		return
	}

	db := &core.CoreDB{}
	db.UserDB = sqldb.NewUserDB(sqlDB)
	db.GroupDB = sqldb.NewGroupDB(sqlDB)
	db.PostDB = sqldb.NewPostDB(sqlDB) // last, its statements join the other tables
	db.SqlDB = sqlDB

	if *configPath != "" {
		cfg, err := ini.Load(*configPath)
		if err != nil {
			log.Printf("could not load config file: %v", err)
			return
		}
		var data = cfg.Section("").KeysHash()
		db.SiteName = data["site-name"]
		db.PerPage, _ = cfg.Section("").Key("per-page").Int()
		if listen := data["listen"]; listen != "" {
			*listenAddr = listen
		}
	}

	if err := db.Init(sessionStore, ""); err != nil {
		log.Println(err) // log.Fatalln would not run deferred functions
		return
	}

	defer func() {
		log.Println("closing database")
		sqlDB.Close()
	}()

	// init

	if initFlags.Parsed() {
		switch {
		case *initInsert:
			if *groupSlug != "" {
				insertGroup(db, *groupTitle, *groupSlug, *groupDescription)
			}
			if *username != "" {
				insertUser(db, *username)
			}
		case *initListUsers:
			listUsers(db)
		case *initSetPassword:
			if *username != "" {
				setPassword(db, *username)
			}
		}
		return
	}

	listen(db, *listenAddr)
}

func insertGroup(db *core.CoreDB, title, slug, description string) {
	if title == "" {
		title = slug
	}
	if err := db.AddGroup(title, slug, description); err != nil {
		log.Printf(`error creating group "%s": %v`, slug, err)
	}
}

func insertUser(db *core.CoreDB, name string) {

	if err := db.InsertUser(name); err != nil {
		log.Printf("error creating user %s: %v", name, err)
		return
	}

	setPassword(db, name)
}

func listUsers(db *core.CoreDB) {

	users, err := db.GetAllUsers(1000, 0)
	if err != nil {
		log.Printf("error listing users: %v", err)
		return
	}

	for _, u := range users {
		fmt.Printf("%d\t%s\n", u.Id(), u.Name())
	}
}

func setPassword(db *core.CoreDB, name string) {

	user, err := db.GetUserByName(name)
	if err != nil {
		log.Printf("error getting user %s: %v", name, err)
		return
	}

	fmt.Printf("password for user %s: ", name)
	pass1, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	fmt.Printf("repeat password: ")
	pass2, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	if !bytes.Equal(pass1, pass2) {
		log.Printf("passwords don't match")
		return
	}

	if err := db.SetPassword(user, string(pass1)); err != nil {
		log.Printf("error setting password: %v", err)
		return
	}
}

func listen(db *core.CoreDB, addr string) {

	sigintChannel := make(chan os.Signal, 1)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Println(err)
		return
	}

	log.Printf("listening to %s", addr)

	httpSrv := &http.Server{
		Handler:      db.SessionManager.LoadAndSave(web.NewRouter(db, "")),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil {

			// don't panic, we want a graceful shutdown
			if err != http.ErrServerClosed {
				log.Printf("error listening: %v", err)
			}

			// ensure graceful shutdown
			sigintChannel <- os.Interrupt
		}
	}()

	// graceful shutdown

	signal.Notify(sigintChannel, os.Interrupt, syscall.SIGTERM) // SIGINT (Interrupt) or SIGTERM
	<-sigintChannel

	log.Println("shutting down")
	httpSrv.Close()
}

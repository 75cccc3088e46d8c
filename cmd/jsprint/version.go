package main

const jsprintVersion = "0.1.0"
